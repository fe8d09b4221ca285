package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, shared.ErrNotFound) matches any NOT_FOUND error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across the domain
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeConcurrency        = "CONCURRENCY_CONFLICT"
	CodeInvalidState       = "INVALID_STATE"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeAlreadyMatched     = "ALREADY_MATCHED"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeDuplicateRequest   = "DUPLICATE_REQUEST"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrAlreadyMatched      = NewDomainError(CodeAlreadyMatched, "Inbound quantity has already been matched")
	ErrInvariantViolation  = NewDomainError(CodeInvariantViolation, "Stock matching invariant violated")
	ErrDuplicateRequest    = NewDomainError(CodeDuplicateRequest, "Request has already been processed")
)
