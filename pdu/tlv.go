package pdu

import (
	"encoding/binary"
	"fmt"
)

// Tag identifies an optional parameter.
type Tag uint16

// Well-known optional parameter tags.
const (
	TagDestAddrSubunit          Tag = 0x0005
	TagSourceAddrSubunit        Tag = 0x000D
	TagPayloadType              Tag = 0x0019
	TagAdditionalStatusInfoText Tag = 0x001D
	TagReceiptedMessageID       Tag = 0x001E
	TagUserMessageReference     Tag = 0x0204
	TagSourcePort               Tag = 0x020A
	TagDestinationPort          Tag = 0x020B
	TagSarMsgRefNum             Tag = 0x020C
	TagSarTotalSegments         Tag = 0x020E
	TagSarSegmentSeqnum         Tag = 0x020F
	TagSCInterfaceVersion       Tag = 0x0210
	TagMsAvailabilityStatus     Tag = 0x0422
	TagNetworkErrorCode         Tag = 0x0423
	TagMessagePayload           Tag = 0x0424
	TagDeliveryFailureReason    Tag = 0x0425
	TagMoreMessagesToSend       Tag = 0x0426
	TagMessageState             Tag = 0x0427
)

var tagNames = map[Tag]string{
	TagDestAddrSubunit:          "dest_addr_subunit",
	TagSourceAddrSubunit:        "source_addr_subunit",
	TagPayloadType:              "payload_type",
	TagAdditionalStatusInfoText: "additional_status_info_text",
	TagReceiptedMessageID:       "receipted_message_id",
	TagUserMessageReference:     "user_message_reference",
	TagSourcePort:               "source_port",
	TagDestinationPort:          "destination_port",
	TagSarMsgRefNum:             "sar_msg_ref_num",
	TagSarTotalSegments:         "sar_total_segments",
	TagSarSegmentSeqnum:         "sar_segment_seqnum",
	TagSCInterfaceVersion:       "sc_interface_version",
	TagMsAvailabilityStatus:     "ms_availability_status",
	TagNetworkErrorCode:         "network_error_code",
	TagMessagePayload:           "message_payload",
	TagDeliveryFailureReason:    "delivery_failure_reason",
	TagMoreMessagesToSend:       "more_messages_to_send",
	TagMessageState:             "message_state",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tlv(0x%04X)", uint16(t))
}

// Tlv is a single optional parameter.
type Tlv struct {
	Tag   Tag
	Value []byte
}

// Length is the encoded length of the value.
func (t Tlv) Length() uint16 {
	return uint16(len(t.Value))
}

// Uint8 interprets the value as a single byte.
func (t Tlv) Uint8() (uint8, bool) {
	if len(t.Value) < 1 {
		return 0, false
	}
	return t.Value[0], true
}

// Uint16 interprets the value as a big-endian 16-bit integer.
func (t Tlv) Uint16() (uint16, bool) {
	if len(t.Value) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(t.Value), true
}

// TlvCollection is an ordered list of optional parameters.
// Duplicate tags are kept as received.
type TlvCollection []Tlv

// Add appends t.
func (c *TlvCollection) Add(t Tlv) {
	*c = append(*c, t)
}

// Get returns the first parameter with the given tag.
func (c TlvCollection) Get(tag Tag) (Tlv, bool) {
	for _, t := range c {
		if t.Tag == tag {
			return t, true
		}
	}
	return Tlv{}, false
}

// Clone returns a deep copy of the collection.
func (c TlvCollection) Clone() TlvCollection {
	if c == nil {
		return nil
	}
	out := make(TlvCollection, len(c))
	for i, t := range c {
		out[i] = Tlv{Tag: t.Tag, Value: append([]byte(nil), t.Value...)}
	}
	return out
}

// AddMessagePayload appends a message_payload parameter holding b.
func (c *TlvCollection) AddMessagePayload(b []byte) {
	c.Add(Tlv{Tag: TagMessagePayload, Value: append([]byte(nil), b...)})
}

// AddSarReferenceNumber appends sar_msg_ref_num.
func (c *TlvCollection) AddSarReferenceNumber(ref uint16) {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, ref)
	c.Add(Tlv{Tag: TagSarMsgRefNum, Value: v})
}

// AddSarTotalSegments appends sar_total_segments.
func (c *TlvCollection) AddSarTotalSegments(total uint8) {
	c.Add(Tlv{Tag: TagSarTotalSegments, Value: []byte{total}})
}

// AddSarSegmentSeqnum appends sar_segment_seqnum.
func (c *TlvCollection) AddSarSegmentSeqnum(seq uint8) {
	c.Add(Tlv{Tag: TagSarSegmentSeqnum, Value: []byte{seq}})
}

// AddMoreMessagesToSend appends more_messages_to_send.
func (c *TlvCollection) AddMoreMessagesToSend(more bool) {
	var v byte
	if more {
		v = 1
	}
	c.Add(Tlv{Tag: TagMoreMessagesToSend, Value: []byte{v}})
}

// Sar returns the segmentation info carried by the SAR parameters.
func (c TlvCollection) Sar() (MultiPartData, bool) {
	ref, ok := c.Get(TagSarMsgRefNum)
	if !ok {
		return MultiPartData{}, false
	}
	total, ok := c.Get(TagSarTotalSegments)
	if !ok {
		return MultiPartData{}, false
	}
	seq, ok := c.Get(TagSarSegmentSeqnum)
	if !ok {
		return MultiPartData{}, false
	}
	var mpd MultiPartData
	var ok1, ok2, ok3 bool
	mpd.Ref, ok1 = ref.Uint16()
	mpd.Total, ok2 = total.Uint8()
	mpd.Seq, ok3 = seq.Uint8()
	return mpd, ok1 && ok2 && ok3
}
