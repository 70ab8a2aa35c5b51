package recipe

import "errors"

var (
	ErrNotFound           = errors.New("recipe not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrNotLinkable        = errors.New("heading rows cannot be linked to a product")
)
