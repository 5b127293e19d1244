package utility

// GSM 03.38 default alphabet, indexed by septet value.
const gsm7Chars = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞ\x1bÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

const gsm7Escape byte = 0x1B

var (
	gsm7Table   [128]rune
	gsm7Default = make(map[rune]byte, 128)
	gsm7Ext     = map[rune]byte{
		'\f': 0x0A,
		'^':  0x14,
		'{':  0x28,
		'}':  0x29,
		'\\': 0x2F,
		'[':  0x3C,
		'~':  0x3D,
		']':  0x3E,
		'|':  0x40,
		'€':  0x65,
	}
	gsm7ExtRev = make(map[byte]rune, len(gsm7Ext))
)

func init() {
	i := 0
	for _, r := range gsm7Chars {
		gsm7Table[i] = r
		if byte(i) != gsm7Escape {
			gsm7Default[r] = byte(i)
		}
		i++
	}
	for r, b := range gsm7Ext {
		gsm7ExtRev[b] = r
	}
}

// isGSM7 reports whether every rune of text has a default or extension septet.
func isGSM7(text string) bool {
	for _, r := range text {
		if _, ok := gsm7Default[r]; ok {
			continue
		}
		if _, ok := gsm7Ext[r]; ok {
			continue
		}
		return false
	}
	return true
}

// encodeGSM7 maps text to unpacked septets, one per octet. Extension
// characters take two septets and unknown runes become '?'.
func encodeGSM7(text string) []byte {
	septets := make([]byte, 0, len(text))
	for _, r := range text {
		if code, ok := gsm7Default[r]; ok {
			septets = append(septets, code)
		} else if ext, ok := gsm7Ext[r]; ok {
			septets = append(septets, gsm7Escape, ext)
		} else {
			septets = append(septets, gsm7Default['?'])
		}
	}
	return septets
}

func decodeGSM7(septets []byte) string {
	out := make([]rune, 0, len(septets))
	for i := 0; i < len(septets); i++ {
		s := septets[i] & 0x7F
		if s == gsm7Escape && i+1 < len(septets) {
			i++
			if r, ok := gsm7ExtRev[septets[i]&0x7F]; ok {
				out = append(out, r)
			} else {
				// unknown extension falls back to the default table
				out = append(out, gsm7Table[septets[i]&0x7F])
			}
			continue
		}
		if s == gsm7Escape {
			out = append(out, ' ')
			continue
		}
		out = append(out, gsm7Table[s])
	}
	return string(out)
}
