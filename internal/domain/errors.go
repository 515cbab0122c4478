package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindNotFound
	KindInvalid
	KindLocationDenied
	KindMaxReached
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid data"
	case KindLocationDenied:
		return "location denied"
	case KindMaxReached:
		return "max countries reached"
	default:
		return "unknown"
	}
}

// CountryError is the tagged failure returned by every directory operation.
type CountryError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CountryError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *CountryError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is matching on the kind alone.
func (e *CountryError) Is(target error) bool {
	t, ok := target.(*CountryError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUnknown        = &CountryError{Kind: KindUnknown}
	ErrNetwork        = &CountryError{Kind: KindNetwork}
	ErrNotFound       = &CountryError{Kind: KindNotFound}
	ErrInvalid        = &CountryError{Kind: KindInvalid}
	ErrLocationDenied = &CountryError{Kind: KindLocationDenied}
	ErrMaxReached     = &CountryError{Kind: KindMaxReached}
)

func NewError(kind ErrorKind, err error) *CountryError {
	return &CountryError{Kind: kind, Err: err}
}

func NetworkError(message string) *CountryError {
	return &CountryError{Kind: KindNetwork, Message: message}
}

func NotFoundError(resource string) *CountryError {
	return &CountryError{Kind: KindNotFound, Message: resource}
}

// KindOf extracts the kind tag, KindUnknown for foreign errors.
func KindOf(err error) ErrorKind {
	var ce *CountryError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
