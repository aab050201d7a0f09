package errors

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("title", "is required", "")

	assert.Equal(t, "title", err.Field)
	assert.Equal(t, "is required", err.Message)
	assert.Equal(t, "validation error on field 'title': is required", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	assert.Equal(t, "validation failed: field1 message1", errs.Error())

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("answer", "must match exactly one option", "correct_option", "E")

	assert.Equal(t, "correct_option", err.Rule)
	assert.Equal(t, "answer", err.Field)
}

func TestValidationErrors_Prefix(t *testing.T) {
	errs := ValidationErrors{{Field: "options", Message: "must have at least 2"}}

	prefixed := errs.Prefix("questions[3]")

	assert.Equal(t, "questions[3].options", prefixed[0].Field)
	assert.Equal(t, "options", errs[0].Field, "original is untouched")
}

func TestToValidationErrors(t *testing.T) {
	type question struct {
		Text string `json:"question" validate:"required"`
	}
	type request struct {
		Title     string     `json:"title" validate:"required"`
		Questions []question `json:"questions" validate:"min=1,dive"`
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(request{Questions: []question{{}}})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "questions[0].question", errs[1].Field)
}

func TestToValidationErrors_PassesOursThrough(t *testing.T) {
	ours := ValidationErrors{{Field: "file", Message: "must be an .xlsx file"}}
	assert.Equal(t, ours, ToValidationErrors(fmt.Errorf("import: %w", ours)))

	single := NewValidationError("answer", "out of range", 7)
	assert.Equal(t, ValidationErrors{*single}, ToValidationErrors(single))

	assert.Nil(t, ToValidationErrors(fmt.Errorf("boom")))
}
