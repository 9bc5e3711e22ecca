package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Update when no product has the given ID.
	ErrNotFound = errors.New("product not found")
	// ErrConflict is returned by Create when the ID is already taken.
	ErrConflict = errors.New("product ID already exists")
	// ErrInvalidQuantity is returned by the stock mutators for a quantity
	// outside [1, MaxStock].
	ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", MaxStock)
)
