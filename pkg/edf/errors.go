package edf

import "errors"

var (
	ErrMissingProperty = errors.New("missing required header property")
	ErrMalformed       = errors.New("malformed edf structure")
	ErrNoProperties    = errors.New("no header properties to save")
	ErrNoData          = errors.New("no image data to save")
)
