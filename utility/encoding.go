package utility

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/majiddarvishan/smppsession/pdu"
)

// ErrUnsupportedEncoding is returned for text data codings that have no
// implementation.
var ErrUnsupportedEncoding = errors.New("smpp: unsupported data coding")

// TextEncoder converts between text and short message octets.
type TextEncoder interface {
	Encode(text string, dc pdu.DataCoding) ([]byte, error)
	Decode(b []byte, dc pdu.DataCoding) (string, error)
}

// DefaultEncoder implements the GSM 7-bit default alphabet (unpacked, one
// septet per octet), IA5, the ISO-8859 codings, UCS-2 and raw octets.
type DefaultEncoder struct{}

var charmaps = map[pdu.DataCoding]*charmap.Charmap{
	pdu.CodingLatin1:   charmap.ISO8859_1,
	pdu.CodingCyrillic: charmap.ISO8859_5,
	pdu.CodingHebrew:   charmap.ISO8859_8,
}

var ucs2 = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// IsSupportedTextCoding reports whether DefaultEncoder handles dc.
func IsSupportedTextCoding(dc pdu.DataCoding) bool {
	switch dc {
	case pdu.CodingDefault, pdu.CodingIA5, pdu.CodingUCS2,
		pdu.CodingOctet, pdu.CodingBinary:
		return true
	}
	_, ok := charmaps[dc]
	return ok
}

func (DefaultEncoder) Encode(text string, dc pdu.DataCoding) ([]byte, error) {
	switch dc {
	case pdu.CodingDefault:
		return encodeGSM7(text), nil
	case pdu.CodingIA5:
		return narrow(text, 0x7F), nil
	case pdu.CodingUCS2:
		b, err := ucs2.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("smpp: ucs2: %w", err)
		}
		return b, nil
	case pdu.CodingOctet, pdu.CodingBinary:
		return []byte(text), nil
	}
	if cm, ok := charmaps[dc]; ok {
		b := make([]byte, 0, len(text))
		for _, r := range text {
			c, ok := cm.EncodeRune(r)
			if !ok {
				c = '?'
			}
			b = append(b, c)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, dc)
}

func (DefaultEncoder) Decode(b []byte, dc pdu.DataCoding) (string, error) {
	switch dc {
	case pdu.CodingDefault:
		return decodeGSM7(b), nil
	case pdu.CodingIA5:
		return string(b), nil
	case pdu.CodingUCS2:
		if len(b)%2 != 0 {
			return "", fmt.Errorf("smpp: odd ucs2 length %d", len(b))
		}
		out, err := ucs2.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("smpp: ucs2: %w", err)
		}
		return string(out), nil
	case pdu.CodingOctet, pdu.CodingBinary:
		return string(b), nil
	}
	if cm, ok := charmaps[dc]; ok {
		r := make([]rune, len(b))
		for i, c := range b {
			r[i] = cm.DecodeByte(c)
		}
		return string(r), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedEncoding, dc)
}

// narrow keeps runes up to limit as single octets and replaces the rest with '?'.
func narrow(text string, limit rune) []byte {
	b := make([]byte, 0, len(text))
	for _, r := range text {
		if r > limit {
			r = '?'
		}
		b = append(b, byte(r))
	}
	return b
}
