package smpp

import (
	"fmt"

	"github.com/armon/circbuf"

	"github.com/majiddarvishan/smppsession/pdu"
)

const trailSize = 256

// FrameReassembler turns an append-only byte stream into complete PDUs.
// It is not safe for concurrent use; the transport feeds it sequentially.
type FrameReassembler struct {
	buf   []byte
	trail *circbuf.Buffer
}

// NewFrameReassembler returns an empty reassembler.
func NewFrameReassembler() *FrameReassembler {
	trail, _ := circbuf.NewBuffer(trailSize)
	return &FrameReassembler{trail: trail}
}

// Feed appends data to the receive buffer and calls dispatch once for every
// complete frame, in stream order. The frame slice holds the whole PDU and is
// only valid during the call. A partial frame stays buffered for the next
// Feed. A header that cannot be parsed discards everything buffered and
// returns an error wrapping pdu.ErrFraming.
func (f *FrameReassembler) Feed(data []byte, dispatch func(h pdu.Header, frame []byte)) error {
	_, _ = f.trail.Write(data)
	f.buf = append(f.buf, data...)

	off := 0
	for len(f.buf)-off >= pdu.HeaderLength {
		h, err := pdu.DecodeHeader(f.buf, off)
		if err != nil {
			f.buf = f.buf[:0]
			return err
		}
		end := off + int(h.Length)
		if end > len(f.buf) {
			break
		}
		dispatch(h, f.buf[off:end])
		off = end
	}

	rest := copy(f.buf, f.buf[off:])
	f.buf = f.buf[:rest]
	return nil
}

// Buffered returns the number of bytes waiting for the rest of their frame.
func (f *FrameReassembler) Buffered() int {
	return len(f.buf)
}

// Trail returns the last bytes received, for diagnostics.
func (f *FrameReassembler) Trail() []byte {
	return f.trail.Bytes()
}

// Reset drops buffered bytes and the trail.
func (f *FrameReassembler) Reset() {
	f.buf = f.buf[:0]
	f.trail.Reset()
}

func (f *FrameReassembler) String() string {
	return fmt.Sprintf("buffered=%d trail=% x", len(f.buf), f.trail.Bytes())
}
