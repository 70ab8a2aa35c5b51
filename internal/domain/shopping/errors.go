package shopping

import "errors"

var (
	ErrNotFound     = errors.New("shopping item not found")
	ErrNameRequired = errors.New("name or productId is required")
)
