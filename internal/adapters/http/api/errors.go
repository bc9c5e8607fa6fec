package api

import (
	"errors"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidJSON     = errors.New("invalid JSON body")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal server error")
	ErrPanic           = errors.New("handler panic")
)

// Error annotates a failure with the handler operation and a kind matched
// with errors.Is.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// NewKind returns an error of the given kind without a cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind annotates err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// cause strips operation annotations and returns the error a client sees.
func cause(err error) error {
	var e *Error
	for errors.As(err, &e) {
		switch {
		case e.Err != nil:
			err = e.Err
		case e.Kind != nil:
			return e.Kind
		default:
			return err
		}
	}
	return err
}
