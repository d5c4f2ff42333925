package feeds

import "errors"

var (
	// ErrBadRequest is returned for requests missing required parameters
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized is returned when a key feed is requested without a session
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMemberNotFound is returned when the session subject has no member
	ErrMemberNotFound = errors.New("member not found")
)
