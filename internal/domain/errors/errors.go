package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicatePhone   = errors.New("phone already registered")
	ErrPasswordMismatch = errors.New("password confirmation mismatch")

	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAccountNotFound     = errors.New("account not found")
	ErrSourceNotFound      = errors.New("source account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrAccountInactive     = errors.New("account inactive")
	ErrSourceInactive      = errors.New("source account inactive")
	ErrDestinationInactive = errors.New("destination account inactive")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSelfTransfer        = errors.New("self transfer")
	ErrBusy                = errors.New("account busy")

	ErrIdempotencyConflict = errors.New("idempotency key in use")
)

// Error codes
const (
	CodeNotFound            = "ERR_NOT_FOUND"
	CodeInvalidInput        = "ERR_INVALID_INPUT"
	CodeUnauthorized        = "ERR_UNAUTHORIZED"
	CodeForbidden           = "ERR_FORBIDDEN"
	CodeConflict            = "ERR_CONFLICT"
	CodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	CodeInternalError       = "ERR_INTERNAL"
	CodeInvalidCredentials  = "ERR_INVALID_CREDENTIALS"
	CodeDuplicatePhone      = "ERR_DUPLICATE_PHONE"
	CodePasswordMismatch    = "ERR_PASSWORD_MISMATCH"
	CodeInvalidAmount       = "ERR_INVALID_AMOUNT"
	CodeAccountNotFound     = "ERR_ACCOUNT_NOT_FOUND"
	CodeSourceNotFound      = "ERR_SOURCE_NOT_FOUND"
	CodeDestinationNotFound = "ERR_DESTINATION_NOT_FOUND"
	CodeAccountInactive     = "ERR_ACCOUNT_INACTIVE"
	CodeSourceInactive      = "ERR_SOURCE_INACTIVE"
	CodeDestinationInactive = "ERR_DESTINATION_INACTIVE"
	CodeInsufficientFunds   = "ERR_INSUFFICIENT_FUNDS"
	CodeSelfTransfer        = "ERR_SELF_TRANSFER"
	CodeBusy                = "ERR_BUSY"
	CodeIdempotencyConflict = "ERR_IDEMPOTENCY_CONFLICT"
)

type descriptor struct {
	status  int
	code    string
	message string
}

// one human-readable message per outcome
var descriptors = map[error]descriptor{
	ErrNotFound:            {http.StatusNotFound, CodeNotFound, "Resource not found"},
	ErrAlreadyExists:       {http.StatusConflict, CodeAlreadyExists, "Resource already exists"},
	ErrInvalidInput:        {http.StatusBadRequest, CodeInvalidInput, "Invalid input"},
	ErrUnauthorized:        {http.StatusUnauthorized, CodeUnauthorized, "Authentication required"},
	ErrForbidden:           {http.StatusForbidden, CodeForbidden, "You do not have access to this resource"},
	ErrInvalidCredentials:  {http.StatusUnauthorized, CodeInvalidCredentials, "Invalid phone number or password"},
	ErrDuplicatePhone:      {http.StatusConflict, CodeDuplicatePhone, "Phone number is already registered"},
	ErrPasswordMismatch:    {http.StatusBadRequest, CodePasswordMismatch, "Password confirmation does not match"},
	ErrInvalidAmount:       {http.StatusBadRequest, CodeInvalidAmount, "Amount must be greater than zero"},
	ErrAccountNotFound:     {http.StatusNotFound, CodeAccountNotFound, "Account not found"},
	ErrSourceNotFound:      {http.StatusNotFound, CodeSourceNotFound, "Source account not found"},
	ErrDestinationNotFound: {http.StatusNotFound, CodeDestinationNotFound, "Destination account not found"},
	ErrAccountInactive:     {http.StatusUnprocessableEntity, CodeAccountInactive, "Account is locked"},
	ErrSourceInactive:      {http.StatusUnprocessableEntity, CodeSourceInactive, "Source account is locked"},
	ErrDestinationInactive: {http.StatusUnprocessableEntity, CodeDestinationInactive, "Destination account is locked"},
	ErrInsufficientFunds:   {http.StatusUnprocessableEntity, CodeInsufficientFunds, "Insufficient balance"},
	ErrSelfTransfer:        {http.StatusUnprocessableEntity, CodeSelfTransfer, "Cannot transfer to the same account"},
	ErrBusy:                {http.StatusServiceUnavailable, CodeBusy, "Account is busy, please try again"},
	ErrIdempotencyConflict: {http.StatusConflict, CodeIdempotencyConflict, "A request with this idempotency key is still in progress"},
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, nil)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// NewError creates a bad-request error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidInput,
		Message: message,
		Err:     err,
	}
}

// FromError maps any error to an AppError. Known domain errors keep their
// status and message; everything else becomes an internal error.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for sentinel, d := range descriptors {
		if errors.Is(err, sentinel) {
			return NewAppError(d.status, d.code, d.message, err)
		}
	}
	return InternalError(err)
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Message
}

// IsDomain reports whether err is one of the known domain outcomes.
func IsDomain(err error) bool {
	for sentinel := range descriptors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether the caller may retry the same call unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}
