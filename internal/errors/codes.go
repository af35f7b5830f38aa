// Package errors provides structured error handling for FileScout.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (walk, stat, read)
//   - 3XX: Watcher/backend errors
//   - 4XX: Query validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates filesystem I/O errors.
	CategoryIO Category = "IO"
	// CategoryWatcher indicates notification-backend errors.
	CategoryWatcher Category = "WATCHER"
	// CategoryValidation indicates query validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates an unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed but the process can
	// continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeRootUnreadable = "ERR_201_ROOT_UNREADABLE"
	ErrCodeEntryVanished  = "ERR_202_ENTRY_VANISHED"

	// Watcher errors (300-399)
	ErrCodeWatcherSetup    = "ERR_301_WATCHER_SETUP"
	ErrCodeWatcherOverflow = "ERR_302_WATCHER_OVERFLOW"

	// Query validation errors (400-499)
	ErrCodeInvalidQuery    = "ERR_401_INVALID_QUERY"
	ErrCodeInvalidSize     = "ERR_402_INVALID_SIZE"
	ErrCodeInvalidDate     = "ERR_403_INVALID_DATE"
	ErrCodeUnknownFilter   = "ERR_404_UNKNOWN_FILTER"
	ErrCodeUnknownType     = "ERR_405_UNKNOWN_TYPE"
	ErrCodeQueryCancelled  = "ERR_406_QUERY_CANCELLED"
	ErrCodeUnbalancedQuery = "ERR_407_UNBALANCED_QUERY"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts the category from an error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryWatcher
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on the error code. Watcher
// setup failure is fatal: no index can be maintained without a working
// notification source.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeWatcherSetup, ErrCodeRootUnreadable:
		return SeverityFatal
	case ErrCodeEntryVanished, ErrCodeWatcherOverflow:
		return SeverityWarning
	default:
		return SeverityError
	}
}
