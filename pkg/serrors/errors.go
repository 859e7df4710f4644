package serrors

import (
	"errors"
	"fmt"
)

// BaseError is an error with a stable machine-readable code.
type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string
	cause        error
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *BaseError) Unwrap() error {
	return e.cause
}

// Is reports whether target carries the same code, so a decorated copy still
// matches its sentinel.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	cp := *e
	cp.TemplateData = data
	return &cp
}

func (e *BaseError) WithCause(err error) *BaseError {
	cp := *e
	cp.cause = err
	return &cp
}

// Wrapf keeps the code of base and adds a formatted detail to the message.
func Wrapf(base *BaseError, format string, args ...any) *BaseError {
	cp := *base
	cp.Message = base.Message + ": " + fmt.Sprintf(format, args...)
	return &cp
}

// CodeOf returns the code of the first BaseError in err's chain.
func CodeOf(err error) string {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

type ValidationErrors map[string]string
