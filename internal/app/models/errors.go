package models

import "errors"

// Domain specific errors shared across services and handlers.
var (
	ErrNotFound          = errors.New("requested item not found")
	ErrConflict          = errors.New("item already exists or conflict")
	ErrUnauthenticated   = errors.New("authentication required or invalid credentials")
	ErrForbidden         = errors.New("action forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation failed")
	ErrStreamInFlight    = errors.New("another assistant response is still streaming")
	ErrNoItineraryFound  = errors.New("no itinerary payload found in response")
	ErrSaveRequiresAuth  = errors.New("saving an itinerary requires a signed-in session")
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrAssistantUpstream = errors.New("assistant upstream error")
)
