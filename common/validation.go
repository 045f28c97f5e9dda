package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Binding errors must report json field names instead of Go struct
// field names; the tag name func is registered once for the process.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldErrors converts a binding error into the field-keyed body used for
// 400 validation responses.
func FieldErrors(err error) map[string][]string {
	out := map[string][]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
		}
		return out
	}

	out["non_field_errors"] = []string{err.Error()}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "max":
		return "Ensure this value is less than or equal to " + fe.Param() + "."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}
