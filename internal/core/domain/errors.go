package domain

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failure carries no message of its own.
const FallbackMessage = "Unable to fetch geography fun right now."

// StatusError is a non-2xx answer from the trivia endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status %d", e.Code)
}

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a body arrived but is not a GeoFunResponse.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Failure kinds, used as metric labels and log fields.
const (
	KindTransport = "transport"
	KindProtocol  = "protocol"
	KindDecode    = "decode"
	KindUnknown   = "unknown"
)

// FailureKind classifies err into one of the Kind* constants.
func FailureKind(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &statusErr):
		return KindProtocol
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// FailureMessage returns the text surfaced to the user for err. Wrapping
// added by adapters is stripped: a typed failure contributes only its own
// message.
func FailureMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}
	msg := err.Error()
	var statusErr *StatusError
	var transportErr *TransportError
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &statusErr):
		msg = statusErr.Error()
	case errors.As(err, &decodeErr):
		msg = decodeErr.Error()
	case errors.As(err, &transportErr):
		msg = transportErr.Error()
	}
	if msg == "" {
		return FallbackMessage
	}
	return msg
}
