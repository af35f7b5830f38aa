package errors

import "fmt"

// ScoutError is the structured error type for FileScout. It carries the
// context needed for error handling, logging, and user presentation.
type ScoutError struct {
	// Code is the unique error code (e.g. "ERR_402_INVALID_SIZE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Watcher, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error, if any.
	Cause error

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ScoutError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ScoutError) Unwrap() error {
	return e.Cause
}

// Is matches against another ScoutError by code, enabling errors.Is.
func (e *ScoutError) Is(target error) bool {
	if t, ok := target.(*ScoutError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail. Returns the error for chaining.
func (e *ScoutError) WithDetail(key, value string) *ScoutError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *ScoutError) WithSuggestion(suggestion string) *ScoutError {
	e.Suggestion = suggestion
	return e
}

// New creates a ScoutError with the given code and message. Category and
// severity are derived from the code.
func New(code string, message string, cause error) *ScoutError {
	return &ScoutError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a ScoutError with a formatted message.
func Newf(code string, format string, args ...any) *ScoutError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a ScoutError from an existing error, keeping its message.
func Wrap(code string, err error) *ScoutError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ScoutError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// WatcherError creates a watcher-setup error. These are fatal at startup.
func WatcherError(message string, cause error) *ScoutError {
	return New(ErrCodeWatcherSetup, message, cause)
}

// QueryError creates a query validation error. Validation failures are
// returned synchronously; a query never partially runs.
func QueryError(code string, format string, args ...any) *ScoutError {
	return Newf(code, format, args...)
}

// IsFatal checks whether an error has fatal severity.
func IsFatal(err error) bool {
	if se, ok := err.(*ScoutError); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the code from a ScoutError, "" otherwise.
func GetCode(err error) string {
	if se, ok := err.(*ScoutError); ok {
		return se.Code
	}
	return ""
}
