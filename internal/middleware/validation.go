package middleware

import (
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "invrecon/internal/errors"
)

// Validator wraps go-playground/validator with the domain's custom rules
// and translates failures into field-level API errors.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

var batchRefPattern = regexp.MustCompile(`^[A-Za-z0-9/_\-\.]+$`)

// NewValidator creates a request validator with the domain rules registered.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	v.RegisterValidation("category", isCategoryCode)
	v.RegisterValidation("batchref", isBatchRef)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

// ValidateStruct validates a decoded request body against its struct tags.
// Failures come back as one VALIDATION_FAILED APIError carrying each bad
// field.
func (v *Validator) ValidateStruct(s interface{}) *apierrors.APIError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.NewValidationError(err.Error())
	}

	fields := make([]apierrors.ValidationError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return apierrors.NewValidationErrors(fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "category":
		return "must be one of FG, TR, SV, CO, CG, AD"
	case "batchref":
		return "must be a valid batch reference"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed validation rule " + fe.Tag()
	}
}

// isCategoryCode accepts the two-letter item category codes.
func isCategoryCode(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "FG", "TR", "SV", "CO", "CG", "AD":
		return true
	}
	return false
}

// isBatchRef accepts batch reference numbers as they appear in the
// purchase register.
func isBatchRef(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value != "" && len(value) <= 64 && batchRefPattern.MatchString(value)
}
