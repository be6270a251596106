package buildconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks decoded partial records. Field names in reported
// namespaces come from the `key` tags so errors name document keys.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("key")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("envkey", func(fl validator.FieldLevel) bool {
		return reservedEnvKey(fl.Field().String()) == ""
	}); err != nil {
		panic("buildconfig: registering envkey validation: " + err.Error())
	}
	return v
}

// validatePartial runs struct-tag validation and converts the first
// failure into an InvalidConfigError.
func validatePartial(p *partial) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := fieldErrs[0]
	key := namespaceKey(fe.Namespace())
	got := fmt.Sprintf("%q", valueString(fe.Value()))

	switch fe.Tag() {
	case "oneof":
		return invalidValue(key, expectedOutput(), got)
	case "hostname_rfc1123":
		return invalidValue(key, "RFC 1123 host name", got)
	case "envkey":
		return invalidValue(key, "public env name ("+reservedEnvKey(valueString(fe.Value()))+")", got)
	default:
		return invalidValue(key, fe.Tag(), got)
	}
}

// namespaceKey strips the root struct name from a validator namespace:
// "partial.images.domains[0]" becomes "images.domains[0]".
func namespaceKey(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func valueString(v any) string {
	switch val := v.(type) {
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case string:
		return val
	default:
		return fmt.Sprint(v)
	}
}
