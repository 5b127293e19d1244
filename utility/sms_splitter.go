package utility

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"go.uber.org/atomic"

	"github.com/majiddarvishan/smppsession/pdu"
)

// ErrTooManySegments is returned when a message needs more than 255 parts.
var ErrTooManySegments = errors.New("smpp: message needs more than 255 segments")

// DefaultShortMessageMaxBytes is the nominal capacity of one short message.
const DefaultShortMessageMaxBytes = 160

const (
	ucs2MaxBytes    = 140
	sarUCS2MaxBytes = 134
	udh8Overhead    = 6
	udh16Overhead   = 7
	sarOverhead     = 6
	maxSegments     = 255
)

// DetectCoding returns the narrowest data coding able to carry text:
// the default alphabet, then Latin-1 for Latin script text, then UCS-2.
func DetectCoding(text string) pdu.DataCoding {
	if isGSM7(text) {
		return pdu.CodingDefault
	}
	if isLatin(text) {
		return pdu.CodingLatin1
	}
	return pdu.CodingUCS2
}

// isLatin reports whether text is written in Latin script and fits Latin-1.
func isLatin(text string) bool {
	for _, r := range text {
		if r > 0xFF {
			return false
		}
	}
	info := whatlanggo.Detect(text)
	return info.Script == nil || info.Script == unicode.Latin
}

// Strategy selects how the parts of a long message are tied together.
type Strategy int

const (
	// StrategyUDH8 prefixes each part with an 8-bit reference concatenation header.
	StrategyUDH8 Strategy = iota
	// StrategyUDH16 prefixes each part with a 16-bit reference concatenation header.
	StrategyUDH16
	// StrategySAR carries each part in message_payload with the SAR parameters.
	StrategySAR
)

func (s Strategy) String() string {
	switch s {
	case StrategyUDH16:
		return "udh16"
	case StrategySAR:
		return "sar"
	}
	return "udh8"
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "udh8", "":
		return StrategyUDH8, nil
	case "udh16":
		return StrategyUDH16, nil
	case "sar":
		return StrategySAR, nil
	}
	return 0, fmt.Errorf("smpp: unknown segmentation strategy %q", s)
}

// Segment is one part of a split message. With a UDH strategy the
// concatenation header is in UserData.Headers; with SAR the parameters are in
// Tlvs and UserData.Body is the payload.
type Segment struct {
	Part     pdu.MultiPartData
	UserData pdu.UserData
	Tlvs     pdu.TlvCollection
}

// Segmenter splits long messages. Reference numbers come from a counter
// shared by every message the Segmenter splits.
type Segmenter struct {
	maxBytes int
	ref      *atomic.Uint32
}

// NewSegmenter returns a Segmenter for short messages of maxBytes nominal
// octets. Zero selects DefaultShortMessageMaxBytes.
func NewSegmenter(maxBytes int) *Segmenter {
	if maxBytes <= 0 {
		maxBytes = DefaultShortMessageMaxBytes
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Segmenter{
		maxBytes: maxBytes,
		ref:      atomic.NewUint32(rng.Uint32()),
	}
}

// MaxBytes returns the nominal short message capacity.
func (s *Segmenter) MaxBytes() int {
	return s.maxBytes
}

// NextReference returns the next reference number. Callers truncate it to
// the width they need.
func (s *Segmenter) NextReference() uint16 {
	return uint16(s.ref.Inc())
}

// Limits returns the size under which content travels in a single part and
// the per-part capacity when it does not.
func (s *Segmenter) Limits(dc pdu.DataCoding, strategy Strategy) (single, capacity int) {
	alphabet := dc.Alphabet()
	nominal := s.maxBytes
	if strategy == StrategySAR {
		if alphabet == pdu.AlphabetUCS2 && nominal > sarUCS2MaxBytes {
			nominal = sarUCS2MaxBytes
		}
		capacity = nominal - sarOverhead
		if alphabet == pdu.Alphabet7Bit || alphabet == pdu.Alphabet8Bit {
			capacity = capacity * 8 / 7
		}
	} else {
		if alphabet == pdu.AlphabetUCS2 && nominal > ucs2MaxBytes {
			nominal = ucs2MaxBytes
		}
		capacity = nominal - udh8Overhead
		if strategy == StrategyUDH16 {
			capacity = nominal - udh16Overhead
		}
	}
	if alphabet == pdu.AlphabetUCS2 {
		capacity &^= 1
	}
	return nominal, capacity
}

// Split cuts content encoded with dc into parts. Content that fits a single
// short message yields one Segment without any concatenation info.
func (s *Segmenter) Split(content []byte, dc pdu.DataCoding, strategy Strategy) ([]Segment, error) {
	single, capacity := s.Limits(dc, strategy)
	if len(content) <= single {
		return []Segment{{
			Part:     pdu.MultiPartData{Total: 1, Seq: 1},
			UserData: pdu.UserData{Body: content},
		}}, nil
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("smpp: short message capacity %d too small to segment", s.maxBytes)
	}

	chunks := chunk(content, capacity, dc)
	if len(chunks) > maxSegments {
		return nil, fmt.Errorf("%w: %d parts", ErrTooManySegments, len(chunks))
	}

	ref := s.NextReference()
	if strategy == StrategyUDH8 {
		ref &= 0xFF
	}
	total := uint8(len(chunks))
	segments := make([]Segment, len(chunks))
	for i, c := range chunks {
		mpd := pdu.MultiPartData{Ref: ref, Total: total, Seq: uint8(i + 1)}
		seg := Segment{Part: mpd, UserData: pdu.UserData{Body: c}}
		switch strategy {
		case StrategyUDH8:
			seg.UserData.AddConcat8(mpd)
		case StrategyUDH16:
			seg.UserData.AddConcat16(mpd)
		case StrategySAR:
			seg.Tlvs.AddSarReferenceNumber(mpd.Ref)
			seg.Tlvs.AddSarTotalSegments(mpd.Total)
			seg.Tlvs.AddSarSegmentSeqnum(mpd.Seq)
			seg.Tlvs.AddMoreMessagesToSend(i < len(chunks)-1)
		}
		segments[i] = seg
	}
	return segments, nil
}

// chunk splits content into slices of at most size octets without
// separating a GSM escape from its extension character or a UTF-16
// surrogate pair.
func chunk(content []byte, size int, dc pdu.DataCoding) [][]byte {
	var out [][]byte
	ucs2 := dc.Alphabet() == pdu.AlphabetUCS2
	for i := 0; i < len(content); {
		limit := size
		if rest := len(content) - i; rest < limit {
			limit = rest
		} else {
			switch {
			case dc == pdu.CodingDefault && limit > 1 && content[i+limit-1] == gsm7Escape:
				limit--
			case ucs2 && limit > 2 && isHighSurrogate(content[i+limit-2]):
				limit -= 2
			}
		}
		out = append(out, content[i:i+limit])
		i += limit
	}
	return out
}

func isHighSurrogate(hi byte) bool {
	return hi >= 0xD8 && hi <= 0xDB
}

// SplitSubmit builds one submit_sm per part from template. With a UDH
// strategy parts travel in short_message; with SAR they travel in
// message_payload. The template itself is not modified.
func (s *Segmenter) SplitSubmit(template *pdu.SubmitSm, content []byte, strategy Strategy) ([]*pdu.SubmitSm, error) {
	segments, err := s.Split(content, template.DataCoding, strategy)
	if err != nil {
		return nil, err
	}
	out := make([]*pdu.SubmitSm, len(segments))
	for i, seg := range segments {
		p := &pdu.SubmitSm{
			Header:        pdu.Header{CommandID: pdu.SubmitSmID},
			MessageFields: template.MessageFields,
		}
		p.Tlvs = template.Tlvs.Clone()
		p.ShortMessage = pdu.UserData{}
		if strategy == StrategySAR {
			p.EsmClass = pdu.WithUDHI(p.EsmClass, false)
			for _, t := range seg.Tlvs {
				p.Tlvs.Add(t)
			}
			p.Tlvs.AddMessagePayload(seg.UserData.Body)
		} else {
			p.ShortMessage = seg.UserData
			p.EsmClass = pdu.WithUDHI(p.EsmClass, len(seg.UserData.Headers) > 0)
		}
		out[i] = p
	}
	return out, nil
}

// MultiPartOf surfaces the segmentation info carried by a single message
// PDU. Joining the parts is left to the caller.
func MultiPartOf(p pdu.PDU) (pdu.MultiPartData, bool) {
	switch v := p.(type) {
	case *pdu.SubmitSm:
		return v.MultiPart()
	case *pdu.DeliverSm:
		return v.MultiPart()
	case *pdu.DataSm:
		return v.MultiPart()
	}
	return pdu.MultiPartData{}, false
}
