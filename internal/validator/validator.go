package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator wraps the struct validator with the quiz-specific rules registered once
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	v := &Validator{structValidator: structValidator}
	v.questionValidator = NewQuestionValidator(v)
	return v
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate runs struct validation and returns failures as ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterValidation("correct_option", validateCorrectOption)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateCorrectOption checks that a string field equals exactly one element of the
// sibling string slice named by the tag parameter, e.g. `validate:"correct_option=Options"`.
func validateCorrectOption(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	options := parent.FieldByName(fl.Param())
	if !options.IsValid() || options.Kind() != reflect.Slice {
		return false
	}

	answer := fl.Field().String()
	matches := 0
	for i := 0; i < options.Len(); i++ {
		if opt := options.Index(i); opt.Kind() == reflect.String && opt.String() == answer {
			matches++
		}
	}
	return matches == 1
}
