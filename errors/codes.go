package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a hook configuration broke a validation rule.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates a struct or value failed tag validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Request errors
const (
	// ErrCodeTransport indicates a genuine network or HTTP failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_FAILED"
	// ErrCodeCanceled indicates the request was cancelled by its owner.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
