package catalog

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTaken        = errors.New("name already in use")
	ErrInvalidReference = errors.New("referenced record does not exist")
)
