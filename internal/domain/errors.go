package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSchema signals a malformed entity schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrEncoding signals an input file that is not valid UTF-8.
	ErrEncoding = errors.New("invalid encoding")
	// ErrEmptyCatalog signals that a requested item type has no items.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrUnknownUser signals a user id absent from the fitted vector space.
	ErrUnknownUser = errors.New("unknown user")
)

// EncodingError wraps ErrEncoding with the offending file.
type EncodingError struct {
	File string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: file %s is not valid UTF-8", ErrEncoding.Error(), e.File)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// NewEncodingError creates an encoding error for a file.
func NewEncodingError(file string) error {
	return &EncodingError{File: file}
}

// EmptyCatalogError wraps ErrEmptyCatalog with the item type.
type EmptyCatalogError struct {
	ItemType string
}

func (e *EmptyCatalogError) Error() string {
	return fmt.Sprintf("%s: no items of type %q", ErrEmptyCatalog.Error(), e.ItemType)
}

func (e *EmptyCatalogError) Unwrap() error { return ErrEmptyCatalog }

// NewEmptyCatalog creates an empty catalog error for an item type.
func NewEmptyCatalog(itemType string) error {
	return &EmptyCatalogError{ItemType: itemType}
}

// UnknownUserError wraps ErrUnknownUser with the user id.
type UnknownUserError struct {
	UserID string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownUser.Error(), e.UserID)
}

func (e *UnknownUserError) Unwrap() error { return ErrUnknownUser }

// NewUnknownUser creates an unknown user error.
func NewUnknownUser(userID string) error {
	return &UnknownUserError{UserID: userID}
}
