package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mrleocoder/coderbds/internal/repository"
)

var (
	ErrNotFound        = repository.ErrNotFound
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrForbidden       = errors.New("forbidden")
	ErrAccountInactive = errors.New("account is not active")
	ErrPostLocked      = errors.New("cannot edit approved posts")
	ErrPostUndeletable = errors.New("cannot delete approved posts")
	ErrConflict        = errors.New("conflict")
	ErrNoListingTarget = errors.New("news posts have no listing target")
)

// ValidationError is a malformed or out-of-range input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientBalanceError carries the amounts shown to the member.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s",
		decimal.NewFromFloat(e.Required).String(), decimal.NewFromFloat(e.Available).String())
}

// ConflictError is a request that contradicts the current state of a
// record. It matches ErrConflict.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
