package pdu

import "errors"

var (
	// ErrFraming is returned when a header cannot be parsed at all.
	// The stream can not be resynchronised after it.
	ErrFraming = errors.New("smpp: framing error")
	// ErrMalformed is returned when a body field runs past the declared length
	// or a user data header is inconsistent.
	ErrMalformed = errors.New("smpp: malformed pdu")
	// ErrUnknownCommand is returned when decoding an unsupported command id.
	ErrUnknownCommand = errors.New("smpp: unknown command id")
)
