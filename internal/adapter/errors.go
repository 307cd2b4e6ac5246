package adapter

import "errors"

var (
	// ErrUnsupportedMethod is returned by [Transport.Do] for methods other
	// than GET and POST.
	ErrUnsupportedMethod = errors.New("unsupported http method")
	// ErrEmptyURL is returned by [Transport.Do] when the request has no URL.
	ErrEmptyURL = errors.New("empty request url")
)
