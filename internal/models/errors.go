package models

import "errors"

var (
	// ErrOrderNotFound is returned when no order matches a lookup.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder is returned when an order is submitted without ingredients.
	ErrEmptyOrder = errors.New("order has no ingredients")
	// ErrUnknownIngredient is returned when an order references an id missing from the catalog.
	ErrUnknownIngredient = errors.New("unknown ingredient")
)

// FetchError is the single failure kind captured by the loading slices.
// The message is surfaced verbatim to readers of the state.
type FetchError struct {
	Message string `json:"message"`
}

func (e *FetchError) Error() string {
	return e.Message
}

// NewFetchError captures err as a FetchError. A nil err yields nil.
func NewFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return &FetchError{Message: fe.Message}
	}
	return &FetchError{Message: err.Error()}
}
