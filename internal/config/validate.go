package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. Field names are reported by
// their yaml key.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldError is one invalid setting.
type FieldError struct {
	Key   string // dotted key, e.g. clustering.min_cluster_size
	Rule  string // failed validation tag, e.g. min=1
	Value any
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: value %v does not satisfy %s", e.Key, e.Value, e.Rule)
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks every setting against its rules.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, FieldError{
			Key:   keyOf(fe.Namespace()),
			Rule:  rule,
			Value: fe.Value(),
		})
	}
	return out
}

// keyOf turns a validator namespace like Config.clustering.excluded_branches[0]
// into a dotted config key.
func keyOf(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	if i := strings.IndexByte(key, '['); i >= 0 {
		key = key[:i]
	}
	return key
}
