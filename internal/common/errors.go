package common

import "errors"

// ErrorNotFound is the repository-level sentinel for a missing row.
// Services translate it into the coded apperr values.
var ErrorNotFound = errors.New("not found")
