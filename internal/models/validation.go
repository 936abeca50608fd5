package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	linkedInPattern = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/.*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("linkedin", func(fl validator.FieldLevel) bool {
		return linkedInPattern.MatchString(fl.Field().String())
	})
	return v
}

// FieldError names one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by Validate when a record breaks a field rule.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

func collect(err error, extra []FieldError) error {
	var fields []FieldError
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, translate(fe))
		}
	} else if err != nil {
		return err
	}
	fields = append(fields, extra...)
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func translate(fe validator.FieldError) FieldError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "basic_email":
		msg = fmt.Sprintf("Please use a valid %s", field)
	case "linkedin":
		msg = "Please provide a valid LinkedIn URL"
	case "nefield":
		msg = "College and personal emails must differ"
	case "min":
		if field == "mentorReason" {
			msg = "Reason must be at least 100 characters"
		} else {
			msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
	case "gte":
		switch field {
		case "age":
			msg = "Must be at least 18 years old"
		case "expectedPrice":
			msg = "Price cannot be negative"
		default:
			msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		}
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return FieldError{Field: field, Message: msg}
}
