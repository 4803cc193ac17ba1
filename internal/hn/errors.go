package hn

import "errors"

// ErrNotFound marks an item the API answered for with a null body.
var ErrNotFound = errors.New("item not found")

// ErrMalformed marks an item whose body decoded but is missing
// required fields or carries them with the wrong type.
var ErrMalformed = errors.New("malformed item")
