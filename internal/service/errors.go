package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder           = errors.New("please add items to your order")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidCatalogItem   = errors.New("invalid catalog item")
	ErrInvalidPeriod        = errors.New("invalid period")
	ErrInvalidRange         = errors.New("invalid date range")
	ErrIdempotencyKeyReused = errors.New("idempotency key already used for a different order")
)

// CheckoutErrorKind classifies a failed checkout
type CheckoutErrorKind string

const (
	// KindValidation means the order was rejected before reaching the store
	KindValidation CheckoutErrorKind = "validation"
	// KindTransport means the store was unreachable or refused the write
	KindTransport CheckoutErrorKind = "transport"
	// KindTimeout means the store did not answer within the checkout timeout
	KindTimeout CheckoutErrorKind = "timeout"
)

// CheckoutError is returned by Checkout. The cart is unchanged whenever one is
// returned.
type CheckoutError struct {
	Kind CheckoutErrorKind
	Err  error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s error: %v", e.Kind, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// IsCheckoutKind reports whether err is a CheckoutError of kind
func IsCheckoutKind(err error, kind CheckoutErrorKind) bool {
	var ce *CheckoutError
	return errors.As(err, &ce) && ce.Kind == kind
}
