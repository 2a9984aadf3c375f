package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	dErrors "kycdid/pkg/domain-errors"
)

var (
	defaultValidator = newValidator()

	// Permissive: optional leading +, digits, spaces, dots, dashes and parentheses.
	phonePattern = regexp.MustCompile(`^\+?[0-9 ().\-]{7,20}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
	return v
}

// FieldError names one failing field by its JSON path and the rule it broke.
type FieldError struct {
	Field string
	Rule  string
}

// Fields validates v and returns every failing field in declaration order.
// A nil slice means v is valid.
func Fields(v any) []FieldError {
	err := defaultValidator.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "", Rule: "invalid"}}
	}
	out := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{Field: fieldPath(fe), Rule: fe.ActualTag()})
	}
	return out
}

// fieldPath drops the root struct name from the namespace: "Address.proofDocument.kind" -> "proofDocument.kind".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// Validate validates a struct and returns a domain error naming every failing field.
func Validate(req any) error {
	fields := Fields(req)
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	return dErrors.New(dErrors.CodeValidation, "invalid fields: "+strings.Join(names, ", "))
}
