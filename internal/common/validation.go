package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var validationMessages = map[string]string{
	"required": "The field '%s' is required.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"gt":       "The field '%s' must be greater than %s.",
	"oneof":    "The field '%s' must be one of %s.",
}

// ValidateStruct validates s (a pointer to a struct) and returns a map of JSON
// field names to messages. An empty map means s is valid.
func ValidateStruct(s any) map[string]string {
	details := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return details
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		details["_"] = err.Error()
		return details
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	for _, e := range fieldErrs {
		name := e.StructField()
		if field, ok := structType.FieldByName(e.StructField()); ok {
			if tag := strings.Split(field.Tag.Get("json"), ",")[0]; tag != "" {
				name = tag
			}
		}
		details[name] = validationMessage(name, e)
	}
	return details
}

func validationMessage(field string, e validator.FieldError) string {
	msg, ok := validationMessages[e.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, field, e.Param())
	}
	return fmt.Sprintf(msg, field)
}
