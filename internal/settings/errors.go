package settings

// Error codes mirror the domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.
const (
	codeNotFound = "not_found"
	codeInternal = "internal"
)

// SettingsError represents a configuration-specific error with a code
// and message, following the domain.Error interface pattern for
// consistent HTTP status mapping.
type SettingsError struct {
	Code    string
	Message string
}

func (e *SettingsError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *SettingsError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the caller-facing message.
func (e *SettingsError) ErrorMessage() string {
	return e.Message
}

var (
	// ErrNotActive is returned when TaxJar is not enabled for a channel.
	ErrNotActive = &SettingsError{Code: codeNotFound, Message: "TaxJar is not active"}

	// ErrMissingAPIKey is returned when a channel has no API key configured.
	ErrMissingAPIKey = &SettingsError{Code: codeNotFound, Message: "TaxJar apiKey was not provided"}

	// ErrDecryptFailed is returned when an encrypted configuration
	// value cannot be decrypted (wrong key or tampered data).
	ErrDecryptFailed = &SettingsError{Code: codeInternal, Message: "Channel configuration could not be decrypted"}
)
