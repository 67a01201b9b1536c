package handlers

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneChars = regexp.MustCompile(`^[\d\s\-+()]+$`)
	otpDigits  = regexp.MustCompile(`^\d{6}$`)
)

// RegisterValidators installs the custom binding tags on gin's validator.
// Field names in validation errors use the json tag.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneChars.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return passwordProblem(fl.Field().String()) == ""
	}); err != nil {
		return err
	}
	return v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return otpDigits.MatchString(fl.Field().String())
	})
}

// passwordProblem returns the first rule the password breaks, or ""
func passwordProblem(password string) string {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case len(password) < 8:
		return "Password must be at least 8 characters"
	case !upper:
		return "Password must contain at least one uppercase letter"
	case !lower:
		return "Password must contain at least one lowercase letter"
	case !digit:
		return "Password must contain at least one number"
	}
	return ""
}

// validationMessage turns a binding error into the message shown to the caller
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "fullName":
		return "Name must be at least 2 characters"
	case "email":
		return "Please enter a valid email address"
	case "phone":
		switch fe.Tag() {
		case "max":
			return "Phone number must be at most 15 digits"
		case "phone":
			return "Invalid phone number format"
		default:
			return "Phone number must be at least 10 digits"
		}
	case "password":
		if fe.Tag() == "strongpassword" {
			if msg := passwordProblem(fe.Value().(string)); msg != "" {
				return msg
			}
		}
		return "Password is required"
	case "confirmPassword":
		return "Passwords do not match"
	case "license":
		return "License number is required"
	case "otp":
		if code, _ := fe.Value().(string); len(code) == 6 {
			return "OTP must contain only numbers"
		}
		return "OTP must be exactly 6 digits"
	case "role":
		return "Invalid role"
	}
	return "Invalid input"
}
