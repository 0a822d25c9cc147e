package errors

import (
	stderrors "errors"
)

// ExitCode returns the process exit code for err.
// nil maps to ExitOK and foreign errors to ExitInternal.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitCode
	}
	return ExitInternal
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
