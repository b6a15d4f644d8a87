// Package validation runs struct tag validation for request bodies and maps
// the first failure to a CodeValidation domain error.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "vctbuilder/pkg/domain-errors"
	s "vctbuilder/pkg/string"
)

const fallbackMessage = "invalid request body"

// BCP 47 shaped tag such as "en", "en-CA" or "zh-Hant-TW".
var localeTag = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

var std = build()

// tagMessages maps a failing tag to its message. %[1]s is the field and
// %[2]s the tag parameter.
var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"url":      "%[1]s must be a valid url",
	"uri":      "%[1]s must be a valid url",
	"hexcolor": "%[1]s must be a hex color",
	"locale":   "%[1]s must be a locale code",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
	"oneof":    "%[1]s must be one of [%[2]s]",
	"notblank": "%[1]s must not be blank",
}

func build() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	custom := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"locale": func(fl validator.FieldLevel) bool {
			return localeTag.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// Validate checks req against its validate tags.
func Validate(req any) error {
	if err := std.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// Var checks a single value against a tag expression and reports failures
// under field.
func Var(field string, value any, tag string) error {
	err := std.Var(value, tag)
	if err == nil {
		return nil
	}
	if fe, ok := firstFieldError(err); ok {
		return dErrors.New(dErrors.CodeValidation, describe(field, fe))
	}
	return dErrors.Newf(dErrors.CodeValidation, "%s is invalid", field)
}

// ErrorMessage renders the first failure in err, naming the field in
// snake_case.
func ErrorMessage(err error) string {
	fe, ok := firstFieldError(err)
	if !ok {
		return fallbackMessage
	}
	name := fe.Field()
	if name == "" {
		name = fe.StructField()
	}
	return describe(s.ToSnakeCase(name), fe)
}

func firstFieldError(err error) (validator.FieldError, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return nil, false
	}
	return errs[0], true
}

func describe(field string, fe validator.FieldError) string {
	if format, ok := tagMessages[fe.ActualTag()]; ok {
		return fmt.Sprintf(format, field, fe.Param())
	}
	if field == "" {
		return fallbackMessage
	}
	return field + " is invalid"
}
