package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule is a resource-specific cross-field check. It returns a violation
// message, or "" when the payload passes.
type Rule[P any] func(payload P) string

// Gate validates a draft payload before it reaches the network: struct tags
// first, then cross-field rules. It never contacts the server and never
// consults live state beyond what the rules closed over (loaded option
// lists).
type Gate[P any] struct {
	validate *validator.Validate
	rules    []Rule[P]
}

// NewGate builds a gate over a shared validator instance.
func NewGate[P any](validate *validator.Validate, rules ...Rule[P]) *Gate[P] {
	if validate == nil {
		validate = NewValidator()
	}
	return &Gate[P]{validate: validate, rules: rules}
}

// NewValidator builds a validator that reports fields by their json names,
// so violations read like the wire contract.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate returns all violations. An empty result permits submission; a
// non-empty result blocks it and the first entry is surfaced.
func (g *Gate[P]) Validate(payload P) []string {
	var violations []string

	if err := g.validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				violations = append(violations, describe(fe))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	for _, rule := range g.rules {
		if msg := rule(payload); msg != "" {
			violations = append(violations, msg)
		}
	}

	return violations
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match format %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
