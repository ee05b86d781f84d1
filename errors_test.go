package tidepool

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	t.Run("RegularErrorIsNotConfiguration", func(t *testing.T) {
		err := errors.New("err")
		assert.False(t, IsConfigurationError(err))
	})
	t.Run("NilErrorIsNotConfiguration", func(t *testing.T) {
		assert.False(t, IsConfigurationError(nil))
	})
	t.Run("NewConfigurationError", func(t *testing.T) {
		err := NewConfigurationError("err")
		assert.True(t, IsConfigurationError(err))
		assert.Equal(t, "err", err.Error())
	})
	t.Run("NewConfigurationErrorf", func(t *testing.T) {
		err := NewConfigurationErrorf("err %s", "err")
		assert.True(t, IsConfigurationError(err))
		assert.Equal(t, "err err", err.Error())
	})
	t.Run("WrappedErrorRemainsConfiguration", func(t *testing.T) {
		err := errors.Wrap(NewConfigurationError("err"), "context")
		assert.True(t, IsConfigurationError(err))
	})
}

func TestNilTaskError(t *testing.T) {
	t.Run("RegularErrorIsNotNilTask", func(t *testing.T) {
		assert.False(t, IsNilTaskError(errors.New("err")))
	})
	t.Run("NilErrorIsNotNilTask", func(t *testing.T) {
		assert.False(t, IsNilTaskError(nil))
	})
	t.Run("Sentinel", func(t *testing.T) {
		assert.True(t, IsNilTaskError(ErrNilTask))
	})
	t.Run("WrappedSentinel", func(t *testing.T) {
		assert.True(t, IsNilTaskError(errors.WithStack(ErrNilTask)))
		assert.True(t, IsNilTaskError(errors.Wrap(ErrNilTask, "context")))
	})
	t.Run("ConfigurationErrorIsNotNilTask", func(t *testing.T) {
		assert.False(t, IsNilTaskError(NewConfigurationError("err")))
	})
}
