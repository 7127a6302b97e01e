package services

import "errors"

// ErrNotFound is returned when a requested record does not exist or
// belongs to a different user.
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken is returned on registration with an email that already
// has an account.
var ErrEmailTaken = errors.New("email already registered")
