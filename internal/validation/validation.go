// Package validation checks request payloads against their declared field
// rules before anything is sent over the network.
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

// ErrValidation matches every *Error.
var ErrValidation = errors.New("validation failed")

var digitsPattern = regexp.MustCompile(`^\d+$`)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists the rejected fields in declaration order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message for the named json field, if rejected.
func (e *Error) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
			return digitsPattern.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates v and returns *Error when any field is rejected.
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	typ := reflect.TypeOf(v)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe, label(typ, fe)),
		})
	}
	return out
}

func label(typ reflect.Type, fe validator.FieldError) string {
	if typ.Kind() == reflect.Struct {
		if sf, ok := typ.FieldByName(fe.StructField()); ok {
			if l := sf.Tag.Get("label"); l != "" {
				return l
			}
		}
	}
	return fe.Field()
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return "Invalid " + strings.ToLower(label) + " format"
	case "digits":
		return label + " must contain only digits"
	case "oneof":
		return "Invalid " + strings.ToLower(label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
