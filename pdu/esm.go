package pdu

// Bit fields of esm_class and registered_delivery. Each With* function
// replaces its sub-field and leaves the other bits untouched.

const (
	esmModeMask    = 0x03
	esmTypeMask    = 0x3c
	esmUDHI        = 0x40
	esmReplyPath   = 0x80
	regReceiptMask = 0x03
	regSmeAckMask  = 0x0c
	regIntermed    = 0x10
)

// MessageMode is the messaging mode sub-field of esm_class.
type MessageMode uint8

// Messaging modes.
const (
	ModeDefault         MessageMode = 0x00
	ModeDatagram        MessageMode = 0x01
	ModeForward         MessageMode = 0x02
	ModeStoreAndForward MessageMode = 0x03
)

// MessageType is the message type sub-field of esm_class.
type MessageType uint8

// Message types.
const (
	TypeDefault              MessageType = 0x00
	TypeDeliveryReceipt      MessageType = 0x04
	TypeDeliveryAck          MessageType = 0x08
	TypeUserAck              MessageType = 0x10
	TypeConversationAbort    MessageType = 0x18
	TypeIntermediateDelivery MessageType = 0x20
)

// ModeOfESM returns the messaging mode encoded in esm.
func ModeOfESM(esm uint8) MessageMode { return MessageMode(esm & esmModeMask) }

// WithMessageMode returns esm with its messaging mode set to m.
func WithMessageMode(esm uint8, m MessageMode) uint8 {
	return esm&^esmModeMask | uint8(m)&esmModeMask
}

// TypeOfESM returns the message type encoded in esm.
func TypeOfESM(esm uint8) MessageType { return MessageType(esm & esmTypeMask) }

// WithMessageType returns esm with its message type set to t.
func WithMessageType(esm uint8, t MessageType) uint8 {
	return esm&^esmTypeMask | uint8(t)&esmTypeMask
}

// HasUDHI reports whether the user data header indicator is set.
func HasUDHI(esm uint8) bool { return esm&esmUDHI != 0 }

// WithUDHI returns esm with the user data header indicator set to on.
func WithUDHI(esm uint8, on bool) uint8 {
	if on {
		return esm | esmUDHI
	}
	return esm &^ esmUDHI
}

// HasReplyPath reports whether the reply path bit is set.
func HasReplyPath(esm uint8) bool { return esm&esmReplyPath != 0 }

// WithReplyPath returns esm with the reply path bit set to on.
func WithReplyPath(esm uint8, on bool) uint8 {
	if on {
		return esm | esmReplyPath
	}
	return esm &^ esmReplyPath
}

// ReceiptRequest is the SMSC delivery receipt sub-field of registered_delivery.
type ReceiptRequest uint8

// Delivery receipt requests.
const (
	ReceiptNone      ReceiptRequest = 0x00
	ReceiptAlways    ReceiptRequest = 0x01
	ReceiptOnFailure ReceiptRequest = 0x02
)

// ReceiptOf returns the delivery receipt request encoded in reg.
func ReceiptOf(reg uint8) ReceiptRequest { return ReceiptRequest(reg & regReceiptMask) }

// WithReceipt returns reg with its delivery receipt request set to r.
func WithReceipt(reg uint8, r ReceiptRequest) uint8 {
	return reg&^regReceiptMask | uint8(r)&regReceiptMask
}

// SmeAck is the SME originated acknowledgement sub-field of registered_delivery.
type SmeAck uint8

// SME acknowledgement requests.
const (
	SmeAckNone     SmeAck = 0x00
	SmeAckDelivery SmeAck = 0x04
	SmeAckUser     SmeAck = 0x08
	SmeAckBoth     SmeAck = 0x0c
)

// SmeAckOf returns the SME acknowledgement request encoded in reg.
func SmeAckOf(reg uint8) SmeAck { return SmeAck(reg & regSmeAckMask) }

// WithSmeAck returns reg with its SME acknowledgement request set to a.
func WithSmeAck(reg uint8, a SmeAck) uint8 {
	return reg&^regSmeAckMask | uint8(a)&regSmeAckMask
}

// HasIntermediateNotification reports whether intermediate notification is requested.
func HasIntermediateNotification(reg uint8) bool { return reg&regIntermed != 0 }

// WithIntermediateNotification returns reg with intermediate notification set to on.
func WithIntermediateNotification(reg uint8, on bool) uint8 {
	if on {
		return reg | regIntermed
	}
	return reg &^ regIntermed
}
