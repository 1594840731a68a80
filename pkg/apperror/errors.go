package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error carrying a stable code for logs and the status API.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped cause (logged, not exposed to API clients)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// Error codes.
const (
	CodeAccountNotFound      = "ACC_001"
	CodeMalformedAccount     = "ACC_002"
	CodeRateLimited          = "LDG_001"
	CodeTransport            = "LDG_002"
	CodeRetriesExhausted     = "LDG_003"
	CodeTokenAccountNotFound = "LDG_004"
	CodeInvalidAddress       = "TX_001"
	CodeNoAccounts           = "RUN_001"
	CodeRunLocked            = "RUN_002"
	CodeRunNotFound          = "RUN_003"
	CodeDerivationFailed     = "DRV_001"
	CodeInvalidConfig        = "CFG_001"
	CodeInternal             = "SYS_001"
)

// ---- Account Store (ACC) ----

func ErrAccountNotFound(index int) *AppError {
	return New(CodeAccountNotFound, fmt.Sprintf("No keypair record for index %d", index), http.StatusNotFound)
}

func ErrMalformedAccount(index int, err error) *AppError {
	return Wrap(CodeMalformedAccount, fmt.Sprintf("Malformed keypair record for index %d", index), http.StatusUnprocessableEntity, err)
}

// ---- Ledger (LDG) ----

func ErrRateLimited(err error) *AppError {
	return Wrap(CodeRateLimited, "Ledger RPC rate limit hit", http.StatusTooManyRequests, err)
}

func ErrTransport(op string, err error) *AppError {
	return Wrap(CodeTransport, fmt.Sprintf("Ledger RPC %s failed", op), http.StatusBadGateway, err)
}

func ErrRetriesExhausted(op string, attempts int, err error) *AppError {
	return Wrap(CodeRetriesExhausted, fmt.Sprintf("Ledger RPC %s still rate limited after %d attempts", op, attempts), http.StatusServiceUnavailable, err)
}

func ErrTokenAccountNotFound(err error) *AppError {
	return Wrap(CodeTokenAccountNotFound, "Token account not found", http.StatusNotFound, err)
}

// ---- Transaction building (TX) ----

func ErrInvalidAddress(field string, err error) *AppError {
	return Wrap(CodeInvalidAddress, fmt.Sprintf("Invalid %s address", field), http.StatusBadRequest, err)
}

// ---- Batch run (RUN) ----

func ErrNoAccounts() *AppError {
	return New(CodeNoAccounts, "No keypair records found", http.StatusNotFound)
}

func ErrRunLocked() *AppError {
	return New(CodeRunLocked, "Another sweep run holds the lock", http.StatusConflict)
}

func ErrRunNotFound() *AppError {
	return New(CodeRunNotFound, "Sweep run not found", http.StatusNotFound)
}

// ---- Derivation (DRV) ----

func ErrDerivationFailed(index int, err error) *AppError {
	return Wrap(CodeDerivationFailed, fmt.Sprintf("Keypair derivation failed for index %d", index), http.StatusBadGateway, err)
}

// ---- Configuration (CFG) ----

func ErrInvalidConfig(err error) *AppError {
	return Wrap(CodeInvalidConfig, "Invalid configuration", http.StatusInternalServerError, err)
}

// ---- System (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal error", http.StatusInternalServerError, err)
}
