package validator

import (
	"context"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

var (
	global   *validator.Validate
	statuses = map[string]struct{}{"open": {}, "closed": {}, "upcoming": {}}
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrInvalidEmail       = "Invalid email address"
	ErrInvalidStatus      = "Status must be one of open, closed, upcoming"
	ErrInvalidURL         = "Invalid URL"
	ErrUnknownValidation  = "Unknown validation error"
)

// ValidationError describes the first failing field of a request.
type ValidationError struct {
	Field   string
	Tag     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message + ": " + e.Field
}

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("ministry", validateMinistry)
	_ = v.RegisterValidation("ministry_status", validateStatus)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("http_url", validateHTTPURL)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// validateMinistry accepts any identifier without control characters; the
// ministry column is free text.
func validateMinistry(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	if v == "" {
		return false
	}
	return strings.IndexFunc(v, func(r rune) bool { return r < 0x20 || r == 0x7f }) < 0
}

func validateStatus(fl validator.FieldLevel) bool {
	_, ok := statuses[fl.Field().String()]
	return ok
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateHTTPURL passes blank values (they clear the setting) and absolute
// http(s) URLs.
func validateHTTPURL(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	if v == "" {
		return true
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate checks structure against its validate tags and returns a
// *ValidationError for the first violation, or nil.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required", "notblank":
		msg = ErrFieldRequired
	case "ministry":
		msg = ErrInvalidFormat
	case "email":
		msg = ErrInvalidEmail
	case "ministry_status":
		msg = ErrInvalidStatus
	case "url", "http_url":
		msg = ErrInvalidURL
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	default:
		msg = ErrUnknownValidation
	}
	return &ValidationError{Field: ve.Field(), Tag: ve.Tag(), Message: msg}
}
