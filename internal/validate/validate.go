// Package validate checks request structs against their `validate` tags and
// reports failures per JSON field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists the offending fields. The shape mirrors a flattened schema
// error: form level messages plus messages keyed by field name.
type Error struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func (e *Error) Error() string {
	fields := e.Fields()
	if len(fields) == 0 {
		return "invalid input: " + strings.Join(e.FormErrors, "; ")
	}
	return "invalid input: " + strings.Join(fields, ", ")
}

// Fields returns the offending field names in sorted order.
func (e *Error) Fields() []string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Messages flattens the error into human readable lines, form errors first.
func (e *Error) Messages() []string {
	msgs := append([]string{}, e.FormErrors...)
	for _, f := range e.Fields() {
		for _, m := range e.FieldErrors[f] {
			msgs = append(msgs, f+": "+m)
		}
	}
	return msgs
}

func FieldError(field, msg string) *Error {
	return &Error{FormErrors: []string{}, FieldErrors: map[string][]string{field: {msg}}}
}

func FormError(msg string) *Error {
	return &Error{FormErrors: []string{msg}, FieldErrors: map[string][]string{}}
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return val
}

// Struct validates s. It returns nil or an *Error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{FormErrors: []string{}, FieldErrors: map[string][]string{}}
	for _, fe := range verrs {
		out.FieldErrors[fe.Field()] = append(out.FieldErrors[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
