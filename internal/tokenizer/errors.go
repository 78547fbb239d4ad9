package tokenizer

import "fmt"

// ConfigError reports a violated configuration constraint, detected
// synchronously at New. No tokenizer is ever partially constructed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tokenizer: invalid config field %q: %s", e.Field, e.Reason)
}

func configErr(field, reason string) error {
	return &ConfigError{Field: field, Reason: reason}
}
