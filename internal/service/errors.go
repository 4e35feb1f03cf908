package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"wotro-backend/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRange     = errors.New("invalid date selection")
	ErrDatesUnavailable = errors.New("dates unavailable")
	ErrWriteFailed      = errors.New("write failed")
	ErrConflict         = errors.New("conflict")
	ErrRateLimited      = errors.New("too many requests")
)

// RateLimitError carries the limiter's wait. It matches ErrRateLimited.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// RetryAfterSeconds rounds the wait up to whole seconds, minimum one.
func (e *RateLimitError) RetryAfterSeconds() int64 {
	secs := int64(math.Ceil(e.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// fromRepo translates repository sentinels into service errors.
func fromRepo(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrStatusChanged), errors.Is(err, repository.ErrAlreadyReviewed):
		return fmt.Errorf("%s: %w: %v", what, ErrConflict, err)
	}
	return err
}
