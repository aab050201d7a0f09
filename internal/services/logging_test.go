package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLogger_LogOperation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantLevel  string
		wantStatus string
	}{
		{"success", nil, "INFO", "success"},
		{"validation", NewValidationError("title", "is required", ""), "WARN", "validation_error"},
		{"forbidden", NewPermissionError("u1", 3, "quiz", "export_results", "not the quiz owner"), "WARN", "forbidden"},
		{"not found", ErrQuizNotFound, "WARN", "not_found"},
		{"backend fault", errors.New("connection refused"), "ERROR", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewServiceLogger(slog.New(slog.NewJSONHandler(&buf, nil)), "quizzes")

			logger.LogOperation(context.Background(), "create_quiz", "u1", 3, time.Now(), tt.err)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, "create_quiz", entry["operation"])
			assert.Equal(t, "quizzes", entry["component"])
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), entry["error"])
			} else {
				assert.NotContains(t, entry, "error")
			}
		})
	}
}
