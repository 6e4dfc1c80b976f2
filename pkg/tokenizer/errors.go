package tokenizer

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every construction failure produced by this
// package.
var ErrConfiguration = errors.New("invalid tokenizer configuration")

// ConfigurationError reports a tokenizer that cannot be constructed as
// specified. Construction is all-or-nothing: when it is returned, no
// usable tokenizer exists. Token carries the missing vocabulary entry
// when that is the cause.
type ConfigurationError struct {
	Variant string
	Token   string
	msg     string
}

func (e *ConfigurationError) Error() string { return e.msg }

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func missingTokenError(variant, token string) *ConfigurationError {
	return &ConfigurationError{
		Variant: variant,
		Token:   token,
		msg: fmt.Sprintf("cannot find token %q in the provided vocabulary; supply a vocabulary containing %q or load a pretrained preset",
			token, token),
	}
}

func newConfigError(variant, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Variant: variant,
		msg:     fmt.Sprintf(format, args...),
	}
}
