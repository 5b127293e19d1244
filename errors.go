package smpp

import (
	"errors"
	"fmt"

	"github.com/majiddarvishan/smppsession/pdu"
)

var (
	// ErrTimeout is returned when no response arrived within the window.
	// It does not mean the peer failed.
	ErrTimeout = errors.New("smpp: response timeout")
	// ErrNotConnected is returned when there is no usable transport.
	ErrNotConnected = errors.New("smpp: not connected")
	// ErrNotBound is returned for requests that need a bound session.
	ErrNotBound = errors.New("smpp: session not bound")
	// ErrAlreadyBound is returned by Bind on a bound session.
	ErrAlreadyBound = errors.New("smpp: session already bound")
	// ErrClosed is returned to requests pending when the session closed.
	ErrClosed = errors.New("smpp: session closed")
	// ErrDuplicateSequence is returned when a sequence number is already pending.
	ErrDuplicateSequence = errors.New("smpp: sequence number already pending")
	// ErrUnexpectedResponse is returned when the peer answered with a PDU
	// that could not be decoded or does not match the request.
	ErrUnexpectedResponse = errors.New("smpp: unexpected response")
)

// ConnectionError reports a transport failure.
type ConnectionError struct {
	Op   string
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("smpp: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("smpp: %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// statusError maps a local status to the error returned alongside the
// synthesized response. Peer statuses are data, not errors.
func statusError(st pdu.Status) error {
	switch st {
	case pdu.StatusLocalTimeout:
		return ErrTimeout
	case pdu.StatusLocalNoConn:
		return ErrNotConnected
	case pdu.StatusLocalUnbound:
		return ErrNotBound
	case pdu.StatusLocalDisconnected:
		return ErrClosed
	case pdu.StatusLocalUnexpectedResp:
		return ErrUnexpectedResponse
	}
	return nil
}
