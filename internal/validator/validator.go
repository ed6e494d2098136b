package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form input name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}

type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type Register struct {
	UserName string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type CreateServer struct {
	Name string `form:"name" validate:"required"`
	Icon string `form:"icon" validate:"omitempty,url"`
}

type CreateChannel struct {
	Name string `form:"name" validate:"required"`
	Type string `form:"type" validate:"oneof=text voice"`
}

type Profile struct {
	Avatar string `form:"avatar" validate:"omitempty,url"`
	Banner string `form:"banner" validate:"omitempty,url"`
	Bio    string `form:"bio" validate:"max=190"`
	Theme  string `form:"theme" validate:"omitempty,oneof=dark light"`
}

type Message struct {
	Content string `form:"content" validate:"required"`
}

// Check validates one of the form structs and returns the failing fields
// mapped to the tag that rejected them, nil when the form is fine.
func Check(form any) (map[string]string, error) {
	err := validate.Struct(form)
	if err == nil {
		return nil, nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return nil, err
	}

	fieldErrors := make(map[string]string, len(validateErrs))
	for _, e := range validateErrs {
		fieldErrors[e.Field()] = e.Tag()
	}
	return fieldErrors, nil
}

var labels = map[string]string{
	"email":    "Email",
	"password": "Password",
	"username": "Username",
	"name":     "Name",
	"icon":     "Icon URL",
	"type":     "Channel type",
	"avatar":   "Avatar URL",
	"banner":   "Banner URL",
	"bio":      "Bio",
	"theme":    "Theme",
	"content":  "Message",
}

// Describe turns the field errors of Check into one sentence for an alert
// banner. Fields are reported in alphabetical order, only the first one.
func Describe(fieldErrors map[string]string) string {
	if len(fieldErrors) == 0 {
		return ""
	}

	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	field := fields[0]
	label, ok := labels[field]
	if !ok {
		label = field
	}

	switch fieldErrors[field] {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "max":
		return fmt.Sprintf("%s is too long", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
