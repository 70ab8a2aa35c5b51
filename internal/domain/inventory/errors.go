package inventory

import "errors"

var (
	ErrNotFound             = errors.New("inventory item not found")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientQuantity = errors.New("not enough stock")
)
