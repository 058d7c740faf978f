package client

import "errors"

var (
	// ErrConnect reports that no connection to the server could be made.
	ErrConnect = errors.New("connect failed")
	// ErrSession reports a failed round trip on an established connection.
	ErrSession = errors.New("session failed")
)
