package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/seedee/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report yaml key names so messages match what users wrote.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return errors.Wrap(err, errors.ErrCodeInternal, "configuration validation could not run")
		}

		messages := make([]string, 0, len(fieldErrs))
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			fields = append(fields, field)
			messages = append(messages, describe(field, fe))
		}
		return errors.New(errors.ErrCodeConfigValidation, strings.Join(messages, "; ")).
			WithDetail("fields", fields)
	}

	for name, pipeline := range c.Pipelines {
		if strings.TrimSpace(name) == "" {
			return errors.New(errors.ErrCodeConfigValidation, "pipeline name cannot be empty")
		}
		seen := map[string]bool{}
		for _, step := range pipeline.Steps {
			if step.Name == "" {
				continue
			}
			if seen[step.Name] {
				return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("pipeline '%s' has duplicate step name '%s'", name, step.Name)).
					WithDetail("pipeline", name)
			}
			seen[step.Name] = true
		}
	}

	return nil
}

// fieldPath drops the root type from a validator namespace,
// e.g. "Config.build.sdk" becomes "build.sdk".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", field, fe.Param(), fe.Value())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", field, fe.Param())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", field, strings.ToLower(fe.Param()))
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
	}
}
