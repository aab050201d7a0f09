package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/errors"
)

// QuestionDraft is an authored question after normalization: trimmed text, blank options
// dropped and the correct answer resolved to option text.
type QuestionDraft struct {
	Text    string   `json:"question" validate:"required,notblank"`
	Options []string `json:"options" validate:"min=2,dive,notblank"`
	Answer  string   `json:"answer" validate:"required,correct_option=Options"`
}

// QuestionValidator normalizes and validates authored questions
type QuestionValidator struct {
	v *Validator
}

func NewQuestionValidator(v *Validator) *QuestionValidator {
	return &QuestionValidator{v: v}
}

// Draft normalizes raw input. The correct answer is taken from index when given,
// otherwise from answer.
func (qv *QuestionValidator) Draft(text string, options []string, answer string, index *int) (QuestionDraft, error) {
	draft := QuestionDraft{
		Text:    strings.TrimSpace(text),
		Options: NormalizeOptions(options),
		Answer:  strings.TrimSpace(answer),
	}
	if index == nil {
		return draft, nil
	}
	// positions refer to the options as entered, blanks included
	if *index < 0 || *index >= len(options) || strings.TrimSpace(options[*index]) == "" {
		return draft, errors.ValidationErrors{*errors.NewValidationErrorWithRule(
			"correct_index",
			fmt.Sprintf("must select a non-blank option between 0 and %d", len(options)-1),
			"correct_option",
			*index,
		)}
	}
	draft.Answer = strings.TrimSpace(options[*index])
	return draft, nil
}

// Validate checks a normalized draft
func (qv *QuestionValidator) Validate(draft QuestionDraft) error {
	return qv.v.Validate(draft)
}

// DraftAndValidate is Draft followed by Validate
func (qv *QuestionValidator) DraftAndValidate(text string, options []string, answer string, index *int) (QuestionDraft, error) {
	draft, err := qv.Draft(text, options, answer, index)
	if err != nil {
		return draft, err
	}
	return draft, qv.Validate(draft)
}

// NormalizeOptions trims options and drops the blank ones, keeping order.
func NormalizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ParseOptionRef reads a spreadsheet correct-answer cell. A cell equal to one of the
// options is that option; otherwise a letter A-Z or a 1-based number selects by position.
func ParseOptionRef(cell string, options []string) (answer string, index *int) {
	cell = strings.TrimSpace(cell)
	for _, o := range options {
		if o == cell {
			return cell, nil
		}
	}
	if len(cell) == 1 {
		c := strings.ToUpper(cell)[0]
		if c >= 'A' && c <= 'Z' {
			i := int(c - 'A')
			return "", &i
		}
	}
	if n, err := strconv.Atoi(cell); err == nil {
		i := n - 1
		return "", &i
	}
	return cell, nil
}
