package handlers

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// multipartWriter writes a single "file" part into body and returns the request content type
func multipartWriter(t *testing.T, body *bytes.Buffer, filename string, content []byte) string {
	t.Helper()
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType()
}
