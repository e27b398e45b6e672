package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// vnPhonePattern accepts Vietnamese mobile numbers with a 0 or 84 prefix.
var vnPhonePattern = regexp.MustCompile(`(84|0[3|5|7|8|9])+([0-9]{8})\b`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterRules adds the bookstore's custom validation tags to v.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return vnPhonePattern.MatchString(fl.Field().String())
	})
}

// ValidPhone reports whether s looks like a Vietnamese phone number.
func ValidPhone(s string) bool {
	return vnPhonePattern.MatchString(s)
}

// validateForm checks form against its validate tags. The returned error
// carries one message per offending field, keyed by the form field name.
func validateForm(form any) *ServiceError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("Invalid form submission")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return &ServiceError{StatusCode: 400, Message: "Please correct the highlighted fields", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "vnphone":
		return "Enter a valid phone number"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "gte":
		return fmt.Sprintf("Must be %s or more", fe.Param())
	case "oneof":
		return "Choose one of the listed options"
	case "datetime":
		return "Use the YYYY-MM-DD format"
	case "url":
		return "Enter a valid URL"
	default:
		return "Invalid value"
	}
}
