package middlewares

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	cnicPattern        = regexp.MustCompile(`^\d{5}-\d{7}-\d$`)
	accountCodePattern = regexp.MustCompile(`^ACC-\d{4}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
		return cnicPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("acccode", func(fl validator.FieldLevel) bool {
		return accountCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// BindAndValidate parses the request body into dst and validates it.
// Returns fiber.ErrBadRequest for parse errors and a validator.ValidationErrors for validation issues.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validate.Struct(dst)
}

// ValidateStruct validates any struct value using the shared validator instance.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// ValidateVar validates a single value against a tag, e.g. "oneof=paid pending".
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}
