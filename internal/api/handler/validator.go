package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goride/admin-api/internal/core/domain"
)

// Mobile numbers are stored as entered; only the character set is checked.
var mobilePattern = regexp.MustCompile(`^\+?[0-9]{1,31}$`)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Besides the built-in tags it understands "password" (the account password
// policy) and "mobile".
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldLabel)
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return domain.PasswordPolicyViolation(fl.Field().String()) == ""
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Only the first failing
// rule is reported, as an ErrValidation failure.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domain.Fail(domain.ErrValidation, fieldError(ve[0]))
		}
		return err
	}
	return nil
}

// fieldLabel names a field in messages: the label tag wins, then the json name.
func fieldLabel(f reflect.StructField) string {
	if l := f.Tag.Get("label"); l != "" {
		return l
	}
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "password":
		s, _ := fe.Value().(string)
		return domain.PasswordPolicyViolation(s)
	case "mobile":
		return "Invalid mobile number"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
