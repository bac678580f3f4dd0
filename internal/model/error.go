package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeItemNotFound       = "ITEM_NOT_FOUND"
	ErrCodeSizeNotAvailable   = "SIZE_NOT_AVAILABLE"
	ErrCodeOptionNotAvailable = "OPTION_NOT_AVAILABLE"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeCartEmpty          = "CART_EMPTY"
	ErrCodeCartConflict       = "CART_CONFLICT"
	ErrCodeLineNotFound       = "LINE_NOT_FOUND"
	ErrCodeCouponNotFound     = "COUPON_NOT_FOUND"
	ErrCodeCouponInactive     = "COUPON_INACTIVE"
	ErrCodeCouponExpired      = "COUPON_EXPIRED"
	ErrCodeCouponUsageLimit   = "COUPON_USAGE_LIMIT_REACHED"
	ErrCodeCouponBelowMinimum = "COUPON_BELOW_MINIMUM"
	ErrCodeCouponInvalidKind  = "COUPON_INVALID_KIND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a caller-visible, non-retryable validation failure.
// Every rejection is local to one request's computation.
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
	ErrItemNotFound       = NewDomainError(ErrCodeItemNotFound, "One or more menu items not found")
	ErrSizeNotAvailable   = NewDomainError(ErrCodeSizeNotAvailable, "Selected size is not available for this item")
	ErrOptionNotAvailable = NewDomainError(ErrCodeOptionNotAvailable, "Selected add-on is not available for this item")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrCartEmpty          = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrCartConflict       = NewDomainError(ErrCodeCartConflict, "Cart was modified concurrently, please retry")
	ErrLineNotFound       = NewDomainError(ErrCodeLineNotFound, "Cart line not found")
	ErrCouponNotFound     = NewDomainError(ErrCodeCouponNotFound, "Coupon code not found")
	ErrCouponInactive     = NewDomainError(ErrCodeCouponInactive, "Coupon is not active")
	ErrCouponExpired      = NewDomainError(ErrCodeCouponExpired, "Coupon has expired")
	ErrCouponUsageLimit   = NewDomainError(ErrCodeCouponUsageLimit, "Coupon has reached its usage limit")
	ErrCouponInvalidKind  = NewDomainError(ErrCodeCouponInvalidKind, "Coupon has an unrecognised discount kind")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
)

// NewCouponBelowMinimumError builds the below-minimum rejection with the
// qualifying amount in the message so callers can display it.
func NewCouponBelowMinimumError(minimum decimal.Decimal) *DomainError {
	return NewDomainError(
		ErrCodeCouponBelowMinimum,
		fmt.Sprintf("Order total must be at least %s to use this coupon", minimum.StringFixed(2)),
	)
}
