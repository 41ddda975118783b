package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Credit action validation
	validate.RegisterValidation("credit_action", func(fl validator.FieldLevel) bool {
		action := fl.Field().String()
		validActions := []string{"Renewal", "Deduction", "Top-up", "Refund", "Adjustment"}
		for _, a := range validActions {
			if action == a {
				return true
			}
		}
		return false
	})

	// Query type validation
	validate.RegisterValidation("query_type", func(fl validator.FieldLevel) bool {
		queryType := fl.Field().String()
		validTypes := []string{"OSINT", "PRO"}
		for _, t := range validTypes {
			if queryType == t {
				return true
			}
		}
		return false
	})

	// Officer status validation
	validate.RegisterValidation("officer_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		return status == "Active" || status == "Suspended"
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "credit_action":
			errors[field] = "Invalid action. Must be: Renewal, Deduction, Top-up, Refund, or Adjustment"
		case "query_type":
			errors[field] = "Invalid query type. Must be: OSINT or PRO"
		case "officer_status":
			errors[field] = "Invalid status. Must be: Active or Suspended"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
