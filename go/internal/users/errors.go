package users

import "errors"

// ErrNotFound is returned when no user matches the given id or username
var ErrNotFound = errors.New("user not found")
