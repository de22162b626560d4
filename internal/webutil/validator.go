package webutil

import (
	"errors"
	"log"
	"reflect"
	"strings"

	"go_lms_certificate/internal/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator is shared by all handlers.
var Validator *validator.Validate

// Trans translates validation errors into client messages.
var Trans ut.Translator

var fieldLabels = map[string]string{
	"courseId":         "course ID",
	"verificationCode": "verification code",
	"completed":        "completed flag",
	"answers":          "answers",
	"questionIndex":    "question index",
	"selectedAnswer":   "selected answer",
}

func init() {
	Validator = validator.New()

	// report JSON names, not Go field names
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	Trans, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fieldLabel(fe.Field()), fe.Param())
			return t
		})
	}

	registerTranslation("required", "{0} is required.")
	registerTranslation("uuid", "{0} must be a valid UUID.")
	registerTranslation("min", "{0} must be at least {1}.")
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// ValidateStruct runs the shared validator and converts the first failure
// into an INVALID_INPUT AppError.
func ValidateStruct(v interface{}) error {
	err := Validator.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		firstErr := validationErrors[0]
		return model.NewAppError(
			"VALIDATION_ERROR",
			firstErr.Translate(Trans),
			firstErr.Field(),
			model.ErrInvalidInput,
		)
	}
	return err
}
