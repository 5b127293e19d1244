package pdu

import "fmt"

// DataCoding is the data_coding octet of a short message.
type DataCoding uint8

// Data codings commonly used by ESMEs.
const (
	CodingDefault  DataCoding = 0x00 // SMSC default alphabet (GSM 7-bit, unpacked)
	CodingIA5      DataCoding = 0x01 // IA5 / ASCII
	CodingOctet    DataCoding = 0x02 // 8-bit binary
	CodingLatin1   DataCoding = 0x03 // ISO-8859-1
	CodingBinary   DataCoding = 0x04 // 8-bit binary
	CodingJIS      DataCoding = 0x05
	CodingCyrillic DataCoding = 0x06 // ISO-8859-5
	CodingHebrew   DataCoding = 0x07 // ISO-8859-8
	CodingUCS2     DataCoding = 0x08 // UCS-2 big endian
)

func (dc DataCoding) String() string {
	switch dc {
	case CodingDefault:
		return "default"
	case CodingIA5:
		return "ia5"
	case CodingOctet, CodingBinary:
		return "binary"
	case CodingLatin1:
		return "latin1"
	case CodingJIS:
		return "jis"
	case CodingCyrillic:
		return "cyrillic"
	case CodingHebrew:
		return "hebrew"
	case CodingUCS2:
		return "ucs2"
	}
	return fmt.Sprintf("coding(0x%02X)", uint8(dc))
}

// Alphabet is the character width class implied by a data coding.
type Alphabet int

const (
	Alphabet7Bit Alphabet = iota
	Alphabet8Bit
	AlphabetBinary
	AlphabetUCS2
)

func (a Alphabet) String() string {
	switch a {
	case Alphabet8Bit:
		return "8bit"
	case AlphabetBinary:
		return "binary"
	case AlphabetUCS2:
		return "ucs2"
	}
	return "7bit"
}

// IsText reports whether the alphabet carries characters rather than octets.
func (a Alphabet) IsText() bool {
	return a != AlphabetBinary
}

const (
	codingGroupMask  uint8 = 0xf0
	alphabetMask     uint8 = 0x0c
	dataCodingMask   uint8 = 0x0f
	alphabetDefault  uint8 = 0x00
	alphabet8Bit     uint8 = 0x04
	alphabetUCS2     uint8 = 0x08
	alphabetReserved uint8 = 0x0c

	groupGeneral0    uint8 = 0x00
	groupGeneral1    uint8 = 0x10
	groupGeneral2    uint8 = 0x20
	groupGeneral3    uint8 = 0x30
	groupAutoDelete0 uint8 = 0x40
	groupAutoDelete1 uint8 = 0x50
	groupAutoDelete2 uint8 = 0x60
	groupAutoDelete3 uint8 = 0x70
	groupMwiUCS2     uint8 = 0xe0
	groupMessageCls  uint8 = 0xf0
)

// Alphabet classifies dc following the coding groups of GSM 03.38, with the
// SMPP specific values of group zero.
func (dc DataCoding) Alphabet() Alphabet {
	v := uint8(dc)
	switch v & codingGroupMask {
	case groupGeneral0:
		switch v & dataCodingMask {
		case 0x00:
			return Alphabet7Bit
		case 0x02, 0x04, 0x09, 0x0A:
			return AlphabetBinary
		case 0x08:
			return AlphabetUCS2
		default:
			return Alphabet8Bit
		}
	case groupGeneral1, groupGeneral2, groupGeneral3,
		groupAutoDelete0, groupAutoDelete1, groupAutoDelete2, groupAutoDelete3:
		switch v & alphabetMask {
		case alphabet8Bit:
			return AlphabetBinary
		case alphabetUCS2:
			return AlphabetUCS2
		case alphabetDefault, alphabetReserved:
			return Alphabet7Bit
		}
	case groupMwiUCS2:
		return AlphabetUCS2
	case groupMessageCls:
		// bit 2: 0 default alphabet, 1 8-bit data
		if v&0x04 != 0 {
			return AlphabetBinary
		}
		return Alphabet7Bit
	}
	return Alphabet7Bit
}
