package pdu

import (
	"errors"
	"fmt"
	"strconv"
)

// DecodeHeader parses the fixed header found at off.
func DecodeHeader(b []byte, off int) (Header, error) {
	var h Header
	if off < 0 || off > len(b) {
		return h, fmt.Errorf("%w: offset %d outside buffer", ErrFraming, off)
	}
	if err := h.UnmarshalBinary(b[off:]); err != nil {
		return h, err
	}
	return h, nil
}

// DecodeBody parses the body of the PDU described by h. The header itself
// starts at off. Failures never panic: a body that runs past the declared
// length yields ErrMalformed, an unsupported id ErrUnknownCommand.
func DecodeBody(h Header, b []byte, off int) (PDU, error) {
	p := New(h.CommandID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, h.CommandID)
	}
	end := off + int(h.Length)
	if off < 0 || int(h.Length) < HeaderLength || end > len(b) {
		return nil, fmt.Errorf("%w: %s declares %d bytes, %d available", ErrMalformed, h.CommandID, h.Length, len(b)-off)
	}
	*p.Head() = h
	r := reader{buf: b[off+HeaderLength : end]}
	p.decodeBody(&r)
	if r.err != nil {
		return nil, fmt.Errorf("%s: %w", h.CommandID, r.err)
	}
	return p, nil
}

// Decode parses one complete PDU from the start of b.
func Decode(b []byte) (PDU, error) {
	h, err := DecodeHeader(b, 0)
	if err != nil {
		return nil, err
	}
	return DecodeBody(h, b, 0)
}

// Encode serializes p and backpatches command_length with the encoded size.
// The header of p is updated with the length, and with the command id when it
// was left zero.
func Encode(p PDU) ([]byte, error) {
	if p == nil {
		return nil, errors.New("smpp: nil pdu")
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	return encode(p, nil), nil
}

func encode(p PDU, details *[]FieldDetail) []byte {
	h := p.Head()
	if h.CommandID == 0 {
		h.CommandID = p.defaultID()
	}
	w := writer{buf: make([]byte, HeaderLength, 64), details: details}
	p.encodeBody(&w)
	h.Length = uint32(len(w.buf))
	h.put(w.buf)
	return w.buf
}

func validate(p PDU) error {
	var c *Content
	switch v := p.(type) {
	case *SubmitSm:
		c = &v.Content
	case *DeliverSm:
		c = &v.Content
	case *SubmitMulti:
		c = &v.Content
		if len(v.Destinations) > 255 {
			return fmt.Errorf("smpp: submit_multi has %d destinations", len(v.Destinations))
		}
	case *SubmitMultiResp:
		if len(v.Unsuccess) > 255 {
			return fmt.Errorf("smpp: submit_multi_resp has %d unsuccessful destinations", len(v.Unsuccess))
		}
	}
	if c != nil && c.shortMessageLength() > MaxShortMessageLength {
		return fmt.Errorf("smpp: short_message of %d bytes exceeds %d, use message_payload",
			c.shortMessageLength(), MaxShortMessageLength)
	}
	for _, t := range *p.Options() {
		if len(t.Value) > 0xFFFF {
			return fmt.Errorf("smpp: tlv %s value of %d bytes", t.Tag, len(t.Value))
		}
	}
	return nil
}

// Details returns the field-by-field listing of p, header included, in wire
// order. The header of p is updated as by Encode.
func Details(p PDU) []FieldDetail {
	if p == nil {
		return nil
	}
	body := make([]FieldDetail, 0, 16)
	encode(p, &body)
	h := p.Head()
	out := make([]FieldDetail, 0, len(body)+4)
	out = append(out,
		FieldDetail{Name: "command_length", Kind: FieldUint32, Value: strconv.FormatUint(uint64(h.Length), 10)},
		FieldDetail{Name: "command_id", Kind: FieldUint32, Value: h.CommandID.String()},
		FieldDetail{Name: "command_status", Kind: FieldUint32, Value: h.Status.String()},
		FieldDetail{Name: "sequence_number", Kind: FieldUint32, Value: strconv.FormatUint(uint64(h.Sequence), 10)},
	)
	return append(out, body...)
}

// KindOf returns the command id p is encoded with: the one in its header,
// or the default id of its type when the header leaves it zero.
func KindOf(p PDU) CommandID {
	if id := p.Head().CommandID; id != 0 {
		return id
	}
	return p.defaultID()
}
