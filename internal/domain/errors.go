package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, station number below 1).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule:
// a line name already in use, or a station name / station number already
// taken on the same line.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrLineInUse is returned when deleting a line that still has stations.
// Handlers should map this to HTTP 400.
var ErrLineInUse = errors.New("line has stations")

// ErrUnknownStation is returned by route queries naming a station that is
// absent from the current network graph.
var ErrUnknownStation = errors.New("unknown station")

// ErrNoRoute is returned when both stations exist but no path connects them.
var ErrNoRoute = errors.New("no route found")

// ErrGraphUnavailable is returned by route queries before the first network
// graph has been published.
// Handlers should map this to HTTP 503.
var ErrGraphUnavailable = errors.New("network graph not initialized")
