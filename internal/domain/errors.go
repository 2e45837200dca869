package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrConflict        = errors.New("concurrent update detected")

	// Each of these also matches ErrNotFound.
	ErrProductNotFound  = notFound("product not found")
	ErrProfileNotFound  = notFound("profile not found")
	ErrCartItemNotFound = notFound("cart item not found")
	ErrOrderNotFound    = notFound("order not found")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
