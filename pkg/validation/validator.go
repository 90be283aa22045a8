// Package validation checks declarations before they reach the registries:
// struct-tag validation of configuration documents and a fluent validator for
// engine options.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxCategoryLength     = 50
	MaxDiscriminantLength = 64
	MaxAttributes         = 100

	// Regular expressions
	categoryPattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	discriminantPattern = regexp.MustCompile(`^[a-z][a-z0-9_.-]*$`)
	attributeKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return ValidateColorName(fl.Field().String()) == nil
	})
	validate.RegisterValidation("discriminant", func(fl validator.FieldLevel) bool {
		return ValidateDiscriminant(fl.Field().String()) == nil
	})
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "source", "sink", "middle":
			return true
		}
		return false
	})
	validate.RegisterValidation("attrkey", func(fl validator.FieldLevel) bool {
		return ValidateAttributeKey(fl.Field().String()) == nil
	})
	validate.RegisterValidation("attrcount", func(fl validator.FieldLevel) bool {
		return fl.Field().Len() <= MaxAttributes
	})
}

// ValidateStruct validates v using its `validate` struct tags
func ValidateStruct(v any) error {
	if v == nil {
		return errors.New("value to validate cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateColorName validates a color name
func ValidateColorName(name string) error {
	if name == "" {
		return errors.New("color name cannot be empty")
	}
	if len(name) > MaxCategoryLength {
		return fmt.Errorf("color name '%s' exceeds maximum length of %d characters", name, MaxCategoryLength)
	}
	if !categoryPattern.MatchString(name) {
		return fmt.Errorf("color name '%s' is invalid (must start with a letter, followed by alphanumeric, underscore or hyphen)", name)
	}
	return nil
}

// ValidateDiscriminant validates a style tag
func ValidateDiscriminant(style string) error {
	if style == "" {
		return errors.New("discriminant cannot be empty")
	}
	if len(style) > MaxDiscriminantLength {
		return fmt.Errorf("discriminant '%s' exceeds maximum length of %d characters", style, MaxDiscriminantLength)
	}
	if !discriminantPattern.MatchString(style) {
		return fmt.Errorf("discriminant '%s' is invalid (lowercase letter first, then lowercase alphanumeric, '_', '-' or '.')", style)
	}
	return nil
}

// ValidateAttributeKey validates a capability name
func ValidateAttributeKey(key string) error {
	if key == "" {
		return errors.New("attribute key cannot be empty")
	}
	if !attributeKeyPattern.MatchString(key) {
		return fmt.Errorf("attribute key '%s' is invalid", key)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly
// format. All field errors are reported, not just the first.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Errorf("%s: field is required", field))
		case "min":
			msgs = append(msgs, fmt.Errorf("%s: must be at least %s", field, param))
		case "max":
			msgs = append(msgs, fmt.Errorf("%s: must not exceed %s", field, param))
		case "unique":
			msgs = append(msgs, fmt.Errorf("%s: entries must be unique", field))
		case "category":
			msgs = append(msgs, fmt.Errorf("%s: %q is not a valid color name", field, e.Value()))
		case "discriminant":
			msgs = append(msgs, fmt.Errorf("%s: %q is not a valid style tag", field, e.Value()))
		case "role":
			msgs = append(msgs, fmt.Errorf("%s: %q must be one of source, sink, middle", field, e.Value()))
		case "attrcount":
			msgs = append(msgs, fmt.Errorf("%s: must declare at most %d attributes", field, MaxAttributes))
		case "attrkey":
			msgs = append(msgs, fmt.Errorf("%s: %q is not a valid attribute key", field, e.Value()))
		default:
			msgs = append(msgs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(msgs...)
}
