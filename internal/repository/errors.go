package repository

import "errors"

// ErrNotFound is returned when no history is stored for a league.
var ErrNotFound = errors.New("league history not found")
