package domain

import "errors"

// ErrNotFound is returned when a requested resource (trip, view, session
// entry) does not exist. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (missing required trip field, empty stop list). Handlers map this to
// HTTP 422 Unprocessable Entity. Submission is blocked with no state change.
var ErrValidation = errors.New("validation error")

// ErrAuthentication is returned on bad credentials or an invalid/revoked
// session token. It deliberately carries no detail about which part was
// wrong. Handlers map this to HTTP 401.
var ErrAuthentication = errors.New("authentication failed")

// ErrForbidden is returned when an authenticated identity's role does not
// permit the operation (manager-only views and endpoints). Handlers map this
// to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrStopIndex is returned by builder operations addressed at a stop index
// that does not exist. The UI never produces one, but the sequence must fail
// loudly rather than silently corrupt stop numbering.
var ErrStopIndex = errors.New("stop index out of range")
