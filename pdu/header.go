package pdu

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// HeaderLength is the size of the fixed PDU header.
const HeaderLength = 16

// MaxPDUSize is the upper limit accepted for command_length.
const MaxPDUSize = 128 * 1024

// Header represents PDU header.
type Header struct {
	Length    uint32
	CommandID CommandID
	Status    Status
	Sequence  uint32

	// ExternalID is the correlation identifier assigned by an observer.
	// It is local only and never encoded.
	ExternalID string
}

// Head returns the header so that every PDU embedding it satisfies PDU.
func (h *Header) Head() *Header {
	return h
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler interface.
func (h *Header) UnmarshalBinary(body []byte) error {
	if len(body) < HeaderLength {
		return fmt.Errorf("%w: %d bytes available for header", ErrFraming, len(body))
	}
	h.Length = binary.BigEndian.Uint32(body[:4])
	if h.Length < HeaderLength {
		return fmt.Errorf("%w: pdu length %d under lower limit", ErrFraming, h.Length)
	}
	if h.Length > MaxPDUSize {
		return fmt.Errorf("%w: pdu length %d over upper limit", ErrFraming, h.Length)
	}
	h.CommandID = CommandID(binary.BigEndian.Uint32(body[4:8]))
	h.Status = Status(binary.BigEndian.Uint32(body[8:12]))
	h.Sequence = binary.BigEndian.Uint32(body[12:16])
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler interface.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderLength)
	h.put(b)
	return b, nil
}

func (h Header) put(b []byte) {
	binary.BigEndian.PutUint32(b[0:4], h.Length)
	binary.BigEndian.PutUint32(b[4:8], uint32(h.CommandID))
	binary.BigEndian.PutUint32(b[8:12], uint32(h.Status))
	binary.BigEndian.PutUint32(b[12:16], h.Sequence)
}

// Reply builds the header of a response to the request described by h.
func (h Header) Reply(status Status) Header {
	return Header{
		CommandID: h.CommandID.Response(),
		Status:    status,
		Sequence:  h.Sequence,
	}
}

func (h Header) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	sb.WriteString(fmt.Sprintf(" length: %d\n", h.Length))
	sb.WriteString(fmt.Sprintf(" commandID: %s\n", h.CommandID))
	sb.WriteString(fmt.Sprintf(" status: %s\n", h.Status))
	sb.WriteString(fmt.Sprintf(" sequence: %d\n", h.Sequence))
	sb.WriteString("}\n")
	return sb.String()
}
