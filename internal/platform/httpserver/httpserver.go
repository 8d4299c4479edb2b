package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 2 * time.Minute
	idleTimeout       = 2 * time.Minute
	writeSlack        = 30 * time.Second
)

// New builds an HTTP server with sane defaults for this project. Size
// writeTimeout with WriteTimeout.
func New(addr string, handler http.Handler, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// WriteTimeout returns the longest request the server allows once headers
// are read. The slowest request is an evidence submission: reading the body,
// committing maxFiles photos concurrency at a time, then committing the
// event. Each commit is bounded by commitTimeout.
func WriteTimeout(commitTimeout time.Duration, maxFiles, concurrency int) time.Duration {
	if maxFiles < 0 {
		maxFiles = 0
	}
	if concurrency < 1 {
		concurrency = 1
	}
	waves := (maxFiles + concurrency - 1) / concurrency
	return readTimeout + time.Duration(waves+1)*commitTimeout + writeSlack
}
