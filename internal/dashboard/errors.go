package dashboard

import "errors"

// Sentinel errors for the dashboard client.
var (
	ErrFetch      = errors.New("error fetching data")
	ErrEmptyURL   = errors.New("api url is empty")
	ErrBadPayload = errors.New("malformed api payload")
)
