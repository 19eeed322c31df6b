package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes command failures.
type ErrorCode string

const (
	// ErrCodeParseFailed means a required numeric field was empty or not a number.
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"

	// ErrCodeConfigInvalid means the magnitudes or interval broke the config rules.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// ErrCodeCountInvalid means a burst or auto count was missing or out of range.
	ErrCodeCountInvalid ErrorCode = "COUNT_INVALID"

	// ErrCodeClipboardFailed means the address could not be copied.
	ErrCodeClipboardFailed ErrorCode = "CLIPBOARD_FAILED"
)

// Status messages shown for failed commands.
const (
	MsgConfigParseFailed = "config parse failed"
	MsgConfigInvalid     = "config invalid"
	MsgInputParseFailed  = "input parse failed"
	MsgCountInvalid      = "count invalid"
	MsgCopyFailed        = "copy address failed"
)

// CommandError is a non-fatal command failure. The command was aborted and
// nothing changed; Message is the short status shown to the user.
type CommandError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is the human-readable status line.
	Message string

	// Field names the input field at fault, if any.
	Field Field

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}

func newParseError(field Field, message string, err error) *CommandError {
	return &CommandError{Code: ErrCodeParseFailed, Message: message, Field: field, Err: err}
}

func newConfigError(field Field, err error) *CommandError {
	return &CommandError{Code: ErrCodeConfigInvalid, Message: MsgConfigInvalid, Field: field, Err: err}
}

func newCountError(err error) *CommandError {
	return &CommandError{Code: ErrCodeCountInvalid, Message: MsgCountInvalid, Field: FieldCount, Err: err}
}

func newClipboardError(err error) *CommandError {
	return &CommandError{Code: ErrCodeClipboardFailed, Message: MsgCopyFailed, Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsParseError reports whether err is a ParseFailure.
func IsParseError(err error) bool { return hasCode(err, ErrCodeParseFailed) }

// IsConfigError reports whether err is a ConfigInvalid failure.
func IsConfigError(err error) bool { return hasCode(err, ErrCodeConfigInvalid) }

// IsCountError reports whether err is a CountInvalid failure.
func IsCountError(err error) bool { return hasCode(err, ErrCodeCountInvalid) }

// IsClipboardError reports whether err is a ClipboardFailure.
func IsClipboardError(err error) bool { return hasCode(err, ErrCodeClipboardFailed) }

// ErrStopped is returned by Submit once the engine has stopped.
var ErrStopped = errors.New("engine stopped")
