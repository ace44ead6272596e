package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeMissingField            = "MISSING_FIELD"
	ErrCodeInvalidField            = "INVALID_FIELD"
	ErrCodeUserExists              = "USER_EXISTS"
	ErrCodeInvalidCredentials      = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound            = "USER_NOT_FOUND"
	ErrCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeInsufficientStock       = "INSUFFICIENT_STOCK"
	ErrCodeInvalidStatus           = "INVALID_STATUS"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeEmptyOrder              = "EMPTY_ORDER"
	ErrCodeEmptyCart               = "EMPTY_CART"
	ErrCodeCartUnavailable         = "CART_UNAVAILABLE"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUserExists              = NewDomainError(ErrCodeUserExists, "Username or email already registered")
	ErrInvalidCredentials      = NewDomainError(ErrCodeInvalidCredentials, "Invalid username or password")
	ErrUserNotFound            = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrProductNotFound         = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInsufficientStock       = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock for one or more products")
	ErrInvalidStatus           = NewDomainError(ErrCodeInvalidStatus, "Status must be one of pending, confirmed, shipped, delivered, cancelled")
	ErrInvalidStatusTransition = NewDomainError(ErrCodeInvalidStatusTransition, "Cancelled orders cannot change status")
	ErrEmptyOrder              = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrCartUnavailable         = NewDomainError(ErrCodeCartUnavailable, "Cart storage is not configured")
	ErrUnauthorised            = NewDomainError(ErrCodeUnauthorised, "Authentication required")
)

// ValidationError reports a missing or malformed request field.
func ValidationError(field, message string) *DomainError {
	return NewDomainError(ErrCodeInvalidField, field+": "+message)
}

// MissingFieldError reports a required request field that was left empty.
func MissingFieldError(field string) *DomainError {
	return NewDomainError(ErrCodeMissingField, field+" is required")
}
