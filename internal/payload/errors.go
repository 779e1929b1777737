package payload

// Error codes mirror the domain error codes to avoid circular imports.
const (
	codeNotFound = "not_found"
)

// PayloadError represents a normalization error with a code and
// message, following the domain.Error interface pattern for consistent
// HTTP status mapping.
type PayloadError struct {
	Code    string
	Message string
}

func (e *PayloadError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *PayloadError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the caller-facing message.
func (e *PayloadError) ErrorMessage() string {
	return e.Message
}

var (
	// ErrMissingAddress is returned when the payload carries no
	// destination address.
	ErrMissingAddress = &PayloadError{Code: codeNotFound, Message: "Missing address"}

	// ErrMissingVariant is returned when a line claims to reference a
	// product variant but the reference is null. Malformed upstream
	// events must be rejected, not coerced.
	ErrMissingVariant = &PayloadError{Code: codeNotFound, Message: "Can't calculate taxes. Variant doesn't exist"}
)
