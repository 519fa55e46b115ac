package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
			return JobStatus(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks a request payload or generated content against its schema
// and returns a *ValidationError listing every failing field.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:  fieldPath(fe.Namespace()),
			Reason: reason(fe),
		})
	}
	return out
}

// DecodeError turns a JSON decoding failure into a *ValidationError so that
// malformed bodies are reported in the same shape as schema violations.
func DecodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return NewValidationError("body", "request body is empty")
	case errors.As(err, &syntaxErr):
		return NewValidationError("body", fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		if typeErr.Type == timestampType {
			return NewValidationError(field, timestampReason)
		}
		return NewValidationError(field, "expected "+typeErr.Type.String())
	default:
		return NewValidationError("body", err.Error())
	}
}

// fieldPath drops the root struct name: "CreateRequest.jd_content.job_title"
// becomes "jd_content.job_title".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must have at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "jobstatus":
		return "status must be 'active' or 'inactive'"
	default:
		return "failed on " + fe.Tag()
	}
}
