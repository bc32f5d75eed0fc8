package entities

import "errors"

// Sentinel errors shared by both services. Handlers match them with
// errors.Is to pick the transport status code.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyExists   = errors.New("already exists")
)
