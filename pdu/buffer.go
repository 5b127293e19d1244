package pdu

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

// FieldKind describes how a field is laid out on the wire.
type FieldKind int

// Field kinds reported by Details.
const (
	FieldByte FieldKind = iota
	FieldUint16
	FieldUint32
	FieldCString
	FieldBytes
	FieldTLV
)

// FieldDetail is one entry of the field-by-field listing of a PDU.
type FieldDetail struct {
	Name  string
	Kind  FieldKind
	Value string
	Raw   []byte
}

// writer serializes fields in order. When details is set every field is
// also recorded for the observation listing.
type writer struct {
	buf     []byte
	details *[]FieldDetail
}

func (w *writer) note(name string, kind FieldKind, value string, raw []byte) {
	if w.details == nil {
		return
	}
	*w.details = append(*w.details, FieldDetail{Name: name, Kind: kind, Value: value, Raw: raw})
}

func (w *writer) u8(name string, v uint8) {
	w.buf = append(w.buf, v)
	w.note(name, FieldByte, strconv.Itoa(int(v)), nil)
}

func (w *writer) u16(name string, v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
	w.note(name, FieldUint16, strconv.Itoa(int(v)), nil)
}

func (w *writer) u32(name string, v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	w.note(name, FieldUint32, strconv.FormatUint(uint64(v), 10), nil)
}

// cstring writes s followed by a null byte. An empty string is a single null.
func (w *writer) cstring(name string, s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	w.note(name, FieldCString, s, nil)
}

func (w *writer) raw(name string, b []byte) {
	w.buf = append(w.buf, b...)
	w.note(name, FieldBytes, hex.EncodeToString(b), b)
}

func (w *writer) tlvs(c TlvCollection) {
	for _, t := range c {
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(t.Tag))
		w.buf = binary.BigEndian.AppendUint16(w.buf, t.Length())
		w.buf = append(w.buf, t.Value...)
		w.note(t.Tag.String(), FieldTLV, hex.EncodeToString(t.Value), t.Value)
	}
}

// reader extracts fields from a bounded region. The first failure sticks and
// every later extraction returns a zero value.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s at offset %d", ErrMalformed, what, r.off)
	}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) u8() uint8 {
	if r.err != nil || r.remaining() < 1 {
		r.fail("byte field truncated")
		return 0
	}
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	if r.err != nil || r.remaining() < 2 {
		r.fail("uint16 field truncated")
		return 0
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32() uint32 {
	if r.err != nil || r.remaining() < 4 {
		r.fail("uint32 field truncated")
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) cstring() string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.buf[r.off:], 0)
	if i < 0 {
		r.fail("unterminated c-string")
		return ""
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.remaining() < n {
		r.fail("octet string truncated")
		return nil
	}
	if n == 0 {
		return nil
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+n])
	r.off += n
	return b
}

// tlvs consumes the rest of the region as optional parameters.
func (r *reader) tlvs(c *TlvCollection) {
	for r.err == nil && r.remaining() > 0 {
		if r.remaining() < 4 {
			r.fail("tlv header truncated")
			return
		}
		tag := Tag(r.u16())
		n := int(r.u16())
		v := r.bytes(n)
		if r.err != nil {
			return
		}
		c.Add(Tlv{Tag: tag, Value: v})
	}
}
