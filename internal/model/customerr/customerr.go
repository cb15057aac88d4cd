package customerr

import "github.com/pkg/errors"

// NotFoundError reports a lookup miss for a named entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// ValidationError reports rejected input. It is always a client fault,
// never a server one.
type ValidationError struct {
	Err string
}

func (e *ValidationError) Error() string {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
