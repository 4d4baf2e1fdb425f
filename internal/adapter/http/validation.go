package http

import (
	"errors"
	"reflect"
	"strings"

	"artha-lending/internal/domain/marketplace"
	"artha-lending/internal/domain/user"
	"artha-lending/pkg/id"

	"github.com/go-playground/validator/v10"
)

// longest tenure the API accepts as input; the allowed set is a policy check
const maxTenureMonths = 120

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names so details match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// user, loan and actor ids are 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("tenure", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n > 0 && n <= maxTenureMonths
	})
	_ = v.RegisterValidation("kyc", func(fl validator.FieldLevel) bool {
		return user.KYCStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return marketplace.Category(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors maps validator.ValidationErrors to readable field messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "tenure":
			out = append(out, FieldError{Field: field, Message: "must be a whole number of months between 1 and 120"})
		case "kyc":
			out = append(out, FieldError{Field: field, Message: "must be one of unverified, pending, verified"})
		case "category":
			out = append(out, FieldError{Field: field, Message: "must be one of Agriculture, Business, Education, Personal"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
