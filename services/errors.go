package services

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount outside configured deposit bounds")
	ErrDuplicateOrder      = errors.New("payment order already exists for external id")
	ErrInvalidTransition   = errors.New("order or request is in the wrong state for this change")
	ErrInsufficientBalance = errors.New("balance would go negative")
	ErrBelowMinimum        = errors.New("amount below configured minimum")
	ErrNotFound            = errors.New("record not found")
)
