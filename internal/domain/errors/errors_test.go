package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeInvalidInput, "bad", ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrInvalidInput.Error(), err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, "exists", conflict.Error())

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	custom := NewError("custom", ErrForbidden)
	assert.Equal(t, ErrForbidden.Error(), custom.Error())

	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
}

func TestFromError_MapsLedgerOutcomes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrInvalidAmount, http.StatusBadRequest, CodeInvalidAmount},
		{ErrSourceNotFound, http.StatusNotFound, CodeSourceNotFound},
		{ErrDestinationInactive, http.StatusUnprocessableEntity, CodeDestinationInactive},
		{ErrInsufficientFunds, http.StatusUnprocessableEntity, CodeInsufficientFunds},
		{ErrSelfTransfer, http.StatusUnprocessableEntity, CodeSelfTransfer},
		{ErrBusy, http.StatusServiceUnavailable, CodeBusy},
		{ErrDuplicatePhone, http.StatusConflict, CodeDuplicatePhone},
		{ErrPasswordMismatch, http.StatusBadRequest, CodePasswordMismatch},
		{fmt.Errorf("apply delta: %w", ErrAccountInactive), http.StatusUnprocessableEntity, CodeAccountInactive},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			appErr := FromError(tc.err)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Equal(t, tc.code, appErr.Code)
			assert.NotEmpty(t, appErr.Message)
			assert.True(t, IsDomain(tc.err))
		})
	}
}

func TestFromError_PassesThroughAppErrorAndDefaultsToInternal(t *testing.T) {
	original := BadRequest("name is required")
	assert.Same(t, original, FromError(original))

	unknown := FromError(stderrors.New("socket closed"))
	assert.Equal(t, http.StatusInternalServerError, unknown.Status)
	assert.False(t, IsDomain(stderrors.New("socket closed")))
}

func TestMessageAndRetryable(t *testing.T) {
	assert.Equal(t, "Insufficient balance", Message(ErrInsufficientFunds))
	assert.Equal(t, "", Message(nil))
	assert.True(t, IsRetryable(ErrBusy))
	assert.False(t, IsRetryable(ErrInsufficientFunds))
}
