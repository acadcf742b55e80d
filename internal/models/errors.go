package models

import "errors"

// Domain specific errors for the client toolkit.
var (
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrNoToken         = errors.New("no authentication token available")
	ErrNotFound        = errors.New("requested item not found")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidStatus   = errors.New("invalid application status")
	ErrControllerDone  = errors.New("controller stopped")
)
