package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/zonetrack/apiserver/internal/password"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,19}$`)
	hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	zoneCodePattern = regexp.MustCompile(`^[A-Z_]+$`)
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator that understands null types and the custom rules
// "phone", "hexcolor", "zonecode" and "passwordlen".
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("register validation rules: " + err.Error())
	}

	return &Validator{validate: v}
}

// Struct validates s and returns a *FieldErrors describing every failed field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return &FieldErrors{Fields: fields}
}

// FieldErrors maps JSON field names to human-readable messages.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if val, ok := field.Interface().(null.Int); ok && val.Valid {
			return val.Int
		}
		return nil
	}, null.Int{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if val, ok := field.Interface().(decimal.NullDecimal); ok && val.Valid {
			return val.Decimal.InexactFloat64()
		}
		return nil
	}, decimal.NullDecimal{})
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", matches(phonePattern)); err != nil {
		return err
	}
	if err := v.RegisterValidation("hexcolor", matches(hexColorPattern)); err != nil {
		return err
	}
	if err := v.RegisterValidation("zonecode", matches(zoneCodePattern)); err != nil {
		return err
	}
	return v.RegisterValidation("passwordlen", func(fl validator.FieldLevel) bool {
		return password.Fits(fl.Field().String())
	})
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "hexcolor":
		return "must be a valid hex color (e.g., #FF5733)"
	case "zonecode":
		return "must contain only uppercase letters and underscores"
	case "passwordlen":
		return "must be at most " + strconv.Itoa(password.MaxLength) + " bytes"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
