// Package validation wraps go-playground/validator with the product rules and
// English, field-keyed error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// InvalidFieldError reports every rule a candidate record violated, keyed by JSON field name.
type InvalidFieldError struct {
	Fields map[string]string
}

func (e *InvalidFieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid field: " + strings.Join(parts, "; ")
}

// Validator validates structs tagged with `validate`.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with the custom tags and English translations registered.
func New() (*Validator, error) {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register notblank: %w", err)
	}
	if err := v.RegisterValidation("noadmin", noAdmin); err != nil {
		return nil, fmt.Errorf("failed to register noadmin: %w", err)
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("english translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}
	if err := registerMessage(v, trans, "notblank", "{0} cannot be empty"); err != nil {
		return nil, err
	}
	if err := registerMessage(v, trans, "noadmin", `you cannot use "admin" as a product {0}`); err != nil {
		return nil, err
	}

	return &Validator{validate: v, trans: trans}, nil
}

// MustNew is like New but panics if the validator cannot be built.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct validates s and returns an *InvalidFieldError when any rule fails.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = e.Translate(v.trans)
	}
	return &InvalidFieldError{Fields: fields}
}

// noAdmin rejects strings containing "admin" in any letter case.
func noAdmin(fl validator.FieldLevel) bool {
	return !strings.Contains(strings.ToLower(fl.Field().String()), "admin")
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) error {
	err := v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register %s message: %w", tag, err)
	}
	return nil
}
