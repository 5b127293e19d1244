package pdu

import "fmt"

// CommandID identifies the kind of a PDU.
type CommandID uint32

// Command ids of the supported PDU kinds.
const (
	GenericNackID         CommandID = 0x80000000
	BindReceiverID        CommandID = 0x00000001
	BindReceiverRespID    CommandID = 0x80000001
	BindTransmitterID     CommandID = 0x00000002
	BindTransmitterRespID CommandID = 0x80000002
	QuerySmID             CommandID = 0x00000003
	QuerySmRespID         CommandID = 0x80000003
	SubmitSmID            CommandID = 0x00000004
	SubmitSmRespID        CommandID = 0x80000004
	DeliverSmID           CommandID = 0x00000005
	DeliverSmRespID       CommandID = 0x80000005
	UnbindID              CommandID = 0x00000006
	UnbindRespID          CommandID = 0x80000006
	CancelSmID            CommandID = 0x00000008
	CancelSmRespID        CommandID = 0x80000008
	BindTransceiverID     CommandID = 0x00000009
	BindTransceiverRespID CommandID = 0x80000009
	EnquireLinkID         CommandID = 0x00000015
	EnquireLinkRespID     CommandID = 0x80000015
	SubmitMultiID         CommandID = 0x00000021
	SubmitMultiRespID     CommandID = 0x80000021
	AlertNotificationID   CommandID = 0x00000102
	DataSmID              CommandID = 0x00000103
	DataSmRespID          CommandID = 0x80000103
)

const responseBit = 0x80000000

// IsResponse reports whether the id belongs to a response PDU.
func (c CommandID) IsResponse() bool {
	return c&responseBit != 0
}

// Response returns the id of the response matching a request id.
func (c CommandID) Response() CommandID {
	return c | responseBit
}

// IsBind reports whether c is one of the three bind requests.
func (c CommandID) IsBind() bool {
	return c == BindReceiverID || c == BindTransmitterID || c == BindTransceiverID
}

var commandNames = map[CommandID]string{
	GenericNackID:         "generic_nack",
	BindReceiverID:        "bind_receiver",
	BindReceiverRespID:    "bind_receiver_resp",
	BindTransmitterID:     "bind_transmitter",
	BindTransmitterRespID: "bind_transmitter_resp",
	QuerySmID:             "query_sm",
	QuerySmRespID:         "query_sm_resp",
	SubmitSmID:            "submit_sm",
	SubmitSmRespID:        "submit_sm_resp",
	DeliverSmID:           "deliver_sm",
	DeliverSmRespID:       "deliver_sm_resp",
	UnbindID:              "unbind",
	UnbindRespID:          "unbind_resp",
	CancelSmID:            "cancel_sm",
	CancelSmRespID:        "cancel_sm_resp",
	BindTransceiverID:     "bind_transceiver",
	BindTransceiverRespID: "bind_transceiver_resp",
	EnquireLinkID:         "enquire_link",
	EnquireLinkRespID:     "enquire_link_resp",
	SubmitMultiID:         "submit_multi",
	SubmitMultiRespID:     "submit_multi_resp",
	AlertNotificationID:   "alert_notification",
	DataSmID:              "data_sm",
	DataSmRespID:          "data_sm_resp",
}

func (c CommandID) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("command(0x%08X)", uint32(c))
}

// BindMode is the kind of session requested by a bind.
type BindMode int

// Bind modes.
const (
	Transceiver BindMode = iota
	Transmitter
	Receiver
)

// CommandID returns the bind request id for the mode.
func (m BindMode) CommandID() CommandID {
	switch m {
	case Transmitter:
		return BindTransmitterID
	case Receiver:
		return BindReceiverID
	default:
		return BindTransceiverID
	}
}

func (m BindMode) String() string {
	switch m {
	case Transmitter:
		return "transmitter"
	case Receiver:
		return "receiver"
	default:
		return "transceiver"
	}
}

// ModeOf returns the bind mode requested by a bind or bind response id.
func ModeOf(c CommandID) BindMode {
	switch c &^ responseBit {
	case BindTransmitterID:
		return Transmitter
	case BindReceiverID:
		return Receiver
	default:
		return Transceiver
	}
}
