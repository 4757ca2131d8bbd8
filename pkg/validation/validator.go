package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	std     *validator.Validate
	stdOnce sync.Once
)

// Init configures the validator used by Gin's binding and rejects unknown JSON fields.
func Init() {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// configure applies JSON tag names and the shared aliases.
func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("pwd", validatePassword)
	v.RegisterAlias("ymd", "datetime=2006-01-02")
	v.RegisterAlias("taskstatus", "oneof=pending in_progress completed")
	v.RegisterAlias("taskpriority", "oneof=low medium high")
	v.RegisterAlias("gender", "oneof=male female other")
}

// Password length bounds: at least MinPasswordRunes characters and at most
// MaxPasswordBytes bytes, which is all bcrypt will hash.
const (
	MinPasswordRunes = 8
	MaxPasswordBytes = 72
)

func validatePassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.RuneCountInString(s) >= MinPasswordRunes && len(s) <= MaxPasswordBytes
}

// Struct validates service inputs tagged with `validate:"..."`.
func Struct(s any) error {
	stdOnce.Do(func() {
		std = validator.New(validator.WithRequiredStructEnabled())
		configure(std)
	})
	return std.Struct(s)
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"payload": "invalid json"}
	}
	if errors.Is(err, io.EOF) {
		return map[string]string{"payload": "empty body"}
	}
	// encoding/json reports DisallowUnknownFields violations as plain errors
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return map[string]string{strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`): "unknown field"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "datetime":
		return "must match format " + param
	case "pwd":
		return "must be at least 8 characters and at most 72 bytes long"
	case "ymd":
		return "must be a date in YYYY-MM-DD format"
	case "taskstatus":
		return "must be one of: pending, in_progress, completed"
	case "taskpriority":
		return "must be one of: low, medium, high"
	case "gender":
		return "must be one of: male, female, other"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
