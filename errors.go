package tidepool

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNilTask is returned by Execute when called with a nil task.
var ErrNilTask = errors.New("task is nil")

// IsNilTaskError tests an error object to see if it is, or wraps, the
// nil-task error.
func IsNilTaskError(err error) bool {
	return err != nil && errors.Cause(err) == ErrNilTask
}

type configurationError struct {
	msg string
}

func (e *configurationError) Error() string { return e.msg }

// NewConfigurationError creates a new error object to represent an
// invalid pool configuration, for use by config validation.
func NewConfigurationError(msg string) error { return &configurationError{msg: msg} }

// NewConfigurationErrorf creates a new error object to represent an
// invalid pool configuration with a formatted message.
func NewConfigurationErrorf(msg string, args ...interface{}) error {
	return NewConfigurationError(fmt.Sprintf(msg, args...))
}

// IsConfigurationError tests an error object to see if it is a
// configuration error.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}

	switch errors.Cause(err).(type) {
	case *configurationError:
		return true
	default:
		return false
	}
}
