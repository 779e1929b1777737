package taxjar

// Error codes mirror the domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.
const (
	codeInternal    = "internal"
	codeUnavailable = "unavailable"
)

// ProviderError represents a provider-specific error with a code and
// message, following the domain.Error interface pattern for consistent
// HTTP status mapping.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ProviderError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the caller-facing message.
func (e *ProviderError) ErrorMessage() string {
	return e.Message
}

var (
	// ErrMissingAPIKey is returned when a provider call is attempted
	// without credentials.
	ErrMissingAPIKey = &ProviderError{Code: codeInternal, Message: "TaxJar API key is required"}
)
