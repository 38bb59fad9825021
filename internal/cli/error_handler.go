package cli

import (
	stderrors "errors"
	"fmt"

	"haulboard/internal/errors"
	"haulboard/internal/validation"
)

// CommandError is a failure already phrased for the user. The original error
// stays reachable through Unwrap.
type CommandError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommandError) Error() string {
	if e.Operation == "" {
		return e.Message
	}
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Operation: operation, Message: eh.message(err), Err: err}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *CommandError
	if stderrors.As(err, &cmdErr) {
		return err
	}
	return &CommandError{Message: eh.message(err), Err: err}
}

func (eh *ErrorHandler) message(err error) string {
	var cmdErr *CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.Message
	}

	var ve *validation.ValidationError
	if stderrors.As(err, &ve) && !errors.IsAppError(err) {
		return ve.GetUserFriendlyMessage()
	}

	msg := errors.GetUserMessage(err)
	if appErr, ok := errors.AsAppError(err); ok {
		if reason, ok := appErr.GetContext("reason"); ok && appErr.IsType(errors.ErrorTypeInvalidTransition) {
			msg = fmt.Sprintf("%s (%v)", msg, reason)
		}
	}
	return msg
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsInvalidTransition checks if an error is a rejected lifecycle action
func (eh *ErrorHandler) IsInvalidTransition(err error) bool {
	return errors.IsInvalidTransition(err)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// ExitCode maps an error to the process exit status: 0 for success, 2 for
// bad input, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsErrorType(err, errors.ErrorTypeValidation),
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput),
		validation.IsValidationError(err):
		return 2
	default:
		return 1
	}
}
