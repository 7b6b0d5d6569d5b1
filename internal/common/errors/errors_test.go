package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	notFound := NewNotFoundError("unknown user")
	assert.Equal(t, ErrCodeNotFound, notFound.Code)
	assert.Equal(t, "unknown user", notFound.Message)
	assert.False(t, notFound.Retryable)

	invalid := NewInvalidArgumentError("page -1 out of range")
	assert.Equal(t, ErrCodeInvalidArgument, invalid.Code)
	assert.Equal(t, "page -1 out of range", invalid.Details)

	tx := NewTransactionFailureError("unable to delete franchise", goerrors.New("boom"))
	assert.Equal(t, ErrCodeTransactionFailure, tx.Code)
	assert.Equal(t, "boom", tx.Details)
	assert.False(t, tx.Retryable)

	conn := NewConnectivityFailureError(goerrors.New("refused"))
	assert.Equal(t, ErrCodeConnectivityFailure, conn.Code)
	assert.True(t, conn.Retryable)
}

func TestCodeOf_UnwrapsChains(t *testing.T) {
	err := fmt.Errorf("context: %w", NewNotFoundError("unknown user"))
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
	assert.True(t, IsNotFound(err))
	assert.True(t, IsCode(err, ErrCodeNotFound))

	assert.Equal(t, ErrorCode(""), CodeOf(goerrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewConnectivityFailureError(nil)))
	assert.False(t, IsRetryable(NewNotFoundError("x")))
	assert.False(t, IsRetryable(goerrors.New("plain")))
}

func TestErrorString(t *testing.T) {
	err := NewNotFoundError("unknown user")
	assert.Equal(t, "StandardError[NOT_FOUND]: unknown user", err.Error())
}
