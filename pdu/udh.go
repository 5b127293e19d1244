package pdu

import (
	"encoding/binary"
	"fmt"
)

// Information element identifiers used for concatenation.
const (
	IEConcat8  uint8 = 0x00
	IEConcat16 uint8 = 0x08
)

// MultiPartData is the segmentation info of one part of a concatenated message.
type MultiPartData struct {
	Ref   uint16 // Concatenation reference number
	Total uint8  // Total number of segments
	Seq   uint8  // Sequence number of this segment
}

// UdhElement is one information element of a user data header.
type UdhElement struct {
	ID   uint8
	Data []byte
}

// UserData is a short message split into its header elements and content.
// A non-nil empty Headers records an empty header block.
type UserData struct {
	Headers []UdhElement
	Body    []byte
}

// DecodeUserData splits b into header elements and content. Without udhi the
// whole of b is content.
func DecodeUserData(b []byte, udhi bool) (UserData, error) {
	// content may travel in message_payload with short_message left empty
	if !udhi || len(b) == 0 {
		return UserData{Body: b}, nil
	}
	l := int(b[0])
	if l+1 > len(b) {
		return UserData{}, fmt.Errorf("%w: udh length %d exceeds user data length %d", ErrMalformed, l, len(b)-1)
	}
	block := b[1 : l+1]
	// non-nil even when the header block is empty
	ud := UserData{Headers: []UdhElement{}}
	if len(b) > l+1 {
		ud.Body = b[l+1:]
	}
	for len(block) > 0 {
		if len(block) < 2 {
			return UserData{}, fmt.Errorf("%w: truncated udh element", ErrMalformed)
		}
		id, n := block[0], int(block[1])
		if n > len(block)-2 {
			return UserData{}, fmt.Errorf("%w: udh element 0x%02X length %d exceeds header", ErrMalformed, id, n)
		}
		ud.Headers = append(ud.Headers, UdhElement{ID: id, Data: block[2 : 2+n]})
		block = block[2+n:]
	}
	return ud, nil
}

// HeaderLength is the encoded size of the header block including its length
// octet, or zero when there are no headers.
func (u UserData) HeaderLength() int {
	if len(u.Headers) == 0 {
		return 0
	}
	n := 1
	for _, e := range u.Headers {
		n += 2 + len(e.Data)
	}
	return n
}

// Bytes encodes the user data. The header block is only present when
// there are headers.
func (u UserData) Bytes() []byte {
	out := make([]byte, 0, u.HeaderLength()+len(u.Body))
	if len(u.Headers) > 0 {
		out = append(out, byte(u.HeaderLength()-1))
		for _, e := range u.Headers {
			out = append(out, e.ID, byte(len(e.Data)))
			out = append(out, e.Data...)
		}
	}
	return append(out, u.Body...)
}

// Header returns the first element with the given identifier.
func (u UserData) Header(id uint8) (UdhElement, bool) {
	for _, e := range u.Headers {
		if e.ID == id {
			return e, true
		}
	}
	return UdhElement{}, false
}

// AddConcat8 appends an 8-bit reference concatenation element.
func (u *UserData) AddConcat8(mpd MultiPartData) {
	u.Headers = append(u.Headers, UdhElement{
		ID:   IEConcat8,
		Data: []byte{uint8(mpd.Ref), mpd.Total, mpd.Seq},
	})
}

// AddConcat16 appends a 16-bit reference concatenation element.
func (u *UserData) AddConcat16(mpd MultiPartData) {
	v := make([]byte, 4)
	binary.BigEndian.PutUint16(v, mpd.Ref)
	v[2], v[3] = mpd.Total, mpd.Seq
	u.Headers = append(u.Headers, UdhElement{ID: IEConcat16, Data: v})
}

// Concatenation returns the segmentation info of the first well-formed
// concatenation element.
func (u UserData) Concatenation() (MultiPartData, bool) {
	for _, e := range u.Headers {
		switch {
		case e.ID == IEConcat8 && len(e.Data) == 3:
			return MultiPartData{Ref: uint16(e.Data[0]), Total: e.Data[1], Seq: e.Data[2]}, true
		case e.ID == IEConcat16 && len(e.Data) == 4:
			return MultiPartData{Ref: binary.BigEndian.Uint16(e.Data), Total: e.Data[2], Seq: e.Data[3]}, true
		}
	}
	return MultiPartData{}, false
}
