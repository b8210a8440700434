package squares

import (
	"Squares/services/store"
	"errors"
	"fmt"
)

// Business rule rejections. Operations wrap them with detail, test with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidState      = errors.New("invalid game state")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyTaken      = errors.New("square already taken")
	ErrAlreadyScored     = errors.New("quarter already scored")
	ErrLimitExceeded     = errors.New("square limit exceeded")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNothingToLeave    = errors.New("no squares to leave")
	ErrRandomness        = errors.New("random number assignment failed")
)

// translate maps store sentinels onto the engine's own
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrInsufficientFunds):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}
	return err
}

// Kind names the rejection for API clients, "" when err is not a business rule rejection
func Kind(err error) string {
	kinds := []struct {
		err  error
		name string
	}{
		{ErrInvalidInput, "invalid_input"},
		{ErrInvalidState, "invalid_state"},
		{ErrForbidden, "forbidden"},
		{ErrNotFound, "not_found"},
		{ErrAlreadyTaken, "already_taken"},
		{ErrAlreadyScored, "already_scored"},
		{ErrLimitExceeded, "limit_exceeded"},
		{ErrInsufficientFunds, "insufficient_funds"},
		{ErrNothingToLeave, "nothing_to_leave"},
		{ErrRandomness, "randomness_unavailable"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
