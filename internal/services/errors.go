// internal/services/errors.go
package services

import "fmt"

// RequestError is a user-facing workflow failure carrying the HTTP status it
// maps to. Anything else bubbling out of a service is an infrastructure
// error and gets the generic 500 treatment in the handler.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func reqErr(status int, format string, args ...interface{}) *RequestError {
	return &RequestError{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}
