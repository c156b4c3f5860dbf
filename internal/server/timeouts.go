package server

import "time"

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// shutdownTimeout bounds draining requests and closing the store; a var so tests can shorten it.
var shutdownTimeout = 10 * time.Second
