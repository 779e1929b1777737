package tax

// Error codes mirror the domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.
const (
	codeNotFound = "not_found"
)

// TaxError represents a calculation-specific error with a code and
// message, following the domain.Error interface pattern for consistent
// HTTP status mapping.
type TaxError struct {
	Code    string
	Message string
}

func (e *TaxError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *TaxError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the caller-facing message.
func (e *TaxError) ErrorMessage() string {
	return e.Message
}

var (
	// ErrMissingAddress is returned when a document has no destination
	// address to resolve a tax jurisdiction from.
	ErrMissingAddress = &TaxError{Code: codeNotFound, Message: "Missing address"}

	// ErrMissingOrderAddress is returned when a finalized order carries
	// neither a shipping nor a billing address.
	ErrMissingOrderAddress = &TaxError{Code: codeNotFound, Message: "Order has no shipping or billing address"}
)
