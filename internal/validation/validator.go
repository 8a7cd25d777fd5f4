// Package validation проверяет входные структуры через go-playground/validator.
// Ошибки отдаются по JSON-именам полей, в формате {"поле": ["сообщение"]}.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Errors — ошибки по полям запроса.
type Errors map[string][]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return strings.Join(parts, "; ")
}

func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct возвращает nil или Errors.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if field == "" {
			field = "non_field_errors"
		}
		out[field] = append(out[field], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле."
	case "email":
		return "Введите правильный адрес электронной почты."
	case "username":
		return "Допустимы только буквы, цифры и символы @/./+/-/_."
	case "max":
		return fmt.Sprintf("Убедитесь, что значение не длиннее %s.", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("Убедитесь, что значение не меньше %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Допустимые значения: %s.", fe.Param())
	}
	return fmt.Sprintf("Некорректное значение (%s).", fe.Tag())
}
