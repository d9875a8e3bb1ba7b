package api

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	errBodyTooLarge   = errors.New("request body too large")
)

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}
