package middleware

import (
	"reflect"
	"strings"

	"github.com/erp/warehouse/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator reports JSON field names in validation errors and registers the
// decimal_gte0 tag for decimal.Decimal fields
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("decimal_gte0", decimalNonNegative)
}

func decimalNonNegative(fl validator.FieldLevel) bool {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !d.IsNegative()
	case *decimal.Decimal:
		return d == nil || !d.IsNegative()
	default:
		return false
	}
}

// ValidationDetails converts a binding error into per-field details
func ValidationDetails(err error) []dto.ValidationDetail {
	var details []dto.ValidationDetail
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}
	return details
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "min":
		return "Must be at least " + e.Param()
	case "decimal_gte0":
		return "Must not be negative"
	default:
		return "Invalid value"
	}
}
