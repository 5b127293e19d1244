package pdu

// InterfaceVersion is the protocol version announced in binds.
const InterfaceVersion = 0x34

// MaxShortMessageLength is the largest short_message the sm_length octet can
// describe.
const MaxShortMessageLength = 254

// PDU is implemented by every command kind.
type PDU interface {
	Head() *Header
	Options() *TlvCollection
	defaultID() CommandID
	encodeBody(w *writer)
	decodeBody(r *reader)
}

// Optional carries the optional parameters of a PDU.
type Optional struct {
	Tlvs TlvCollection
}

// Options returns the optional parameters for in-place updates.
func (o *Optional) Options() *TlvCollection {
	return &o.Tlvs
}

// Bind is any of bind_transmitter, bind_receiver and bind_transceiver.
// The mode is carried by Header.CommandID.
type Bind struct {
	Header
	SystemID         string
	Password         string
	SystemType       string
	InterfaceVersion uint8
	AddrTon          uint8
	AddrNpi          uint8
	AddressRange     string
	Optional
}

// NewBind returns a bind request for mode.
func NewBind(mode BindMode) *Bind {
	return &Bind{
		Header:           Header{CommandID: mode.CommandID()},
		InterfaceVersion: InterfaceVersion,
	}
}

// Mode returns the requested bind mode.
func (p *Bind) Mode() BindMode { return ModeOf(p.CommandID) }

func (p *Bind) defaultID() CommandID { return BindTransceiverID }

func (p *Bind) encodeBody(w *writer) {
	w.cstring("system_id", p.SystemID)
	w.cstring("password", p.Password)
	w.cstring("system_type", p.SystemType)
	w.u8("interface_version", p.InterfaceVersion)
	w.u8("addr_ton", p.AddrTon)
	w.u8("addr_npi", p.AddrNpi)
	w.cstring("address_range", p.AddressRange)
	w.tlvs(p.Tlvs)
}

func (p *Bind) decodeBody(r *reader) {
	p.SystemID = r.cstring()
	p.Password = r.cstring()
	p.SystemType = r.cstring()
	p.InterfaceVersion = r.u8()
	p.AddrTon = r.u8()
	p.AddrNpi = r.u8()
	p.AddressRange = r.cstring()
	r.tlvs(&p.Tlvs)
}

// BindResp answers any bind request.
type BindResp struct {
	Header
	SystemID string
	Optional
}

// Mode returns the bind mode the response belongs to.
func (p *BindResp) Mode() BindMode { return ModeOf(p.CommandID) }

func (p *BindResp) defaultID() CommandID { return BindTransceiverRespID }

func (p *BindResp) encodeBody(w *writer) {
	w.cstring("system_id", p.SystemID)
	w.tlvs(p.Tlvs)
}

func (p *BindResp) decodeBody(r *reader) {
	// a negative response may come without a body
	if r.remaining() == 0 {
		return
	}
	p.SystemID = r.cstring()
	r.tlvs(&p.Tlvs)
}

// MessageFields are the addressing and content fields shared by submit_sm
// and deliver_sm.
type MessageFields struct {
	ServiceType     string
	SourceAddrTon   uint8
	SourceAddrNpi   uint8
	SourceAddr      string
	DestAddrTon     uint8
	DestAddrNpi     uint8
	DestinationAddr string
	Content
}

func (m *MessageFields) encodeFields(w *writer) {
	w.cstring("service_type", m.ServiceType)
	w.u8("source_addr_ton", m.SourceAddrTon)
	w.u8("source_addr_npi", m.SourceAddrNpi)
	w.cstring("source_addr", m.SourceAddr)
	w.u8("dest_addr_ton", m.DestAddrTon)
	w.u8("dest_addr_npi", m.DestAddrNpi)
	w.cstring("destination_addr", m.DestinationAddr)
	m.encodeContent(w)
}

func (m *MessageFields) decodeFields(r *reader) {
	m.ServiceType = r.cstring()
	m.SourceAddrTon = r.u8()
	m.SourceAddrNpi = r.u8()
	m.SourceAddr = r.cstring()
	m.DestAddrTon = r.u8()
	m.DestAddrNpi = r.u8()
	m.DestinationAddr = r.cstring()
	m.decodeContent(r)
}

// Content runs from esm_class to short_message.
type Content struct {
	EsmClass             uint8
	ProtocolID           uint8
	PriorityFlag         uint8
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   uint8
	ReplaceIfPresentFlag uint8
	DataCoding           DataCoding
	SmDefaultMsgID       uint8
	ShortMessage         UserData
}

func (c *Content) encodeContent(w *writer) {
	sm, esm := encodeShortMessage(c.ShortMessage, c.EsmClass)
	w.u8("esm_class", esm)
	w.u8("protocol_id", c.ProtocolID)
	w.u8("priority_flag", c.PriorityFlag)
	w.cstring("schedule_delivery_time", c.ScheduleDeliveryTime)
	w.cstring("validity_period", c.ValidityPeriod)
	w.u8("registered_delivery", c.RegisteredDelivery)
	w.u8("replace_if_present_flag", c.ReplaceIfPresentFlag)
	w.u8("data_coding", uint8(c.DataCoding))
	w.u8("sm_default_msg_id", c.SmDefaultMsgID)
	w.u8("sm_length", uint8(len(sm)))
	w.raw("short_message", sm)
}

func (c *Content) decodeContent(r *reader) {
	c.EsmClass = r.u8()
	c.ProtocolID = r.u8()
	c.PriorityFlag = r.u8()
	c.ScheduleDeliveryTime = r.cstring()
	c.ValidityPeriod = r.cstring()
	c.RegisteredDelivery = r.u8()
	c.ReplaceIfPresentFlag = r.u8()
	c.DataCoding = DataCoding(r.u8())
	c.SmDefaultMsgID = r.u8()
	sm := r.bytes(int(r.u8()))
	if r.err != nil {
		return
	}
	ud, err := DecodeUserData(sm, HasUDHI(c.EsmClass))
	if err != nil {
		r.err = err
		return
	}
	c.ShortMessage = ud
}

// shortMessageLength is the encoded size of short_message.
func (c *Content) shortMessageLength() int {
	sm, _ := encodeShortMessage(c.ShortMessage, c.EsmClass)
	return len(sm)
}

// encodeShortMessage returns the short_message octets and the esm_class to
// send with them. Headers force the UDHI bit on. A UDHI bit set without
// headers yields an empty header block when there is a body or when the
// decoded short_message carried one; an empty short_message stays empty
// for content sent in message_payload.
func encodeShortMessage(ud UserData, esm uint8) ([]byte, uint8) {
	if len(ud.Headers) > 0 {
		return ud.Bytes(), WithUDHI(esm, true)
	}
	if HasUDHI(esm) && (len(ud.Body) > 0 || ud.Headers != nil) {
		return append([]byte{0}, ud.Body...), esm
	}
	return ud.Body, esm
}

// message resolves the user data from short_message, falling back to the
// message_payload parameter.
func message(ud UserData, esm uint8, tlvs TlvCollection) (UserData, error) {
	if len(ud.Headers) > 0 || len(ud.Body) > 0 {
		return ud, nil
	}
	if t, ok := tlvs.Get(TagMessagePayload); ok {
		return DecodeUserData(t.Value, HasUDHI(esm))
	}
	return ud, nil
}

// multiPart extracts segmentation info from the user data header or from the
// SAR parameters.
func multiPart(ud UserData, esm uint8, tlvs TlvCollection) (MultiPartData, bool) {
	if m, ok := tlvs.Sar(); ok {
		return m, true
	}
	if !HasUDHI(esm) {
		return MultiPartData{}, false
	}
	ud, err := message(ud, esm, tlvs)
	if err != nil {
		return MultiPartData{}, false
	}
	return ud.Concatenation()
}

// SubmitSm submits a short message to the SMSC.
type SubmitSm struct {
	Header
	MessageFields
	Optional
}

func (p *SubmitSm) defaultID() CommandID { return SubmitSmID }

func (p *SubmitSm) encodeBody(w *writer) {
	p.encodeFields(w)
	w.tlvs(p.Tlvs)
}

func (p *SubmitSm) decodeBody(r *reader) {
	p.decodeFields(r)
	r.tlvs(&p.Tlvs)
}

// Message returns the user data carried in short_message or message_payload.
func (p *SubmitSm) Message() (UserData, error) {
	return message(p.ShortMessage, p.EsmClass, p.Tlvs)
}

// MultiPart returns the segmentation info of the message, if any.
func (p *SubmitSm) MultiPart() (MultiPartData, bool) {
	return multiPart(p.ShortMessage, p.EsmClass, p.Tlvs)
}

// SubmitSmResp answers submit_sm.
type SubmitSmResp struct {
	Header
	MessageID string
	Optional
}

func (p *SubmitSmResp) defaultID() CommandID { return SubmitSmRespID }

func (p *SubmitSmResp) encodeBody(w *writer) {
	w.cstring("message_id", p.MessageID)
	w.tlvs(p.Tlvs)
}

func (p *SubmitSmResp) decodeBody(r *reader) {
	if r.remaining() == 0 {
		return
	}
	p.MessageID = r.cstring()
	r.tlvs(&p.Tlvs)
}

// DeliverSm delivers a short message to the ESME.
type DeliverSm struct {
	Header
	MessageFields
	Optional
}

func (p *DeliverSm) defaultID() CommandID { return DeliverSmID }

func (p *DeliverSm) encodeBody(w *writer) {
	p.encodeFields(w)
	w.tlvs(p.Tlvs)
}

func (p *DeliverSm) decodeBody(r *reader) {
	p.decodeFields(r)
	r.tlvs(&p.Tlvs)
}

// Message returns the user data carried in short_message or message_payload.
func (p *DeliverSm) Message() (UserData, error) {
	return message(p.ShortMessage, p.EsmClass, p.Tlvs)
}

// MultiPart returns the segmentation info of the message, if any.
func (p *DeliverSm) MultiPart() (MultiPartData, bool) {
	return multiPart(p.ShortMessage, p.EsmClass, p.Tlvs)
}

// DeliverSmResp answers deliver_sm. MessageID is unused and sent empty.
type DeliverSmResp struct {
	Header
	MessageID string
	Optional
}

func (p *DeliverSmResp) defaultID() CommandID { return DeliverSmRespID }

func (p *DeliverSmResp) encodeBody(w *writer) {
	w.cstring("message_id", p.MessageID)
	w.tlvs(p.Tlvs)
}

func (p *DeliverSmResp) decodeBody(r *reader) {
	if r.remaining() == 0 {
		return
	}
	p.MessageID = r.cstring()
	r.tlvs(&p.Tlvs)
}

// DataSm transfers data in either direction. Content travels in
// message_payload.
type DataSm struct {
	Header
	ServiceType        string
	SourceAddrTon      uint8
	SourceAddrNpi      uint8
	SourceAddr         string
	DestAddrTon        uint8
	DestAddrNpi        uint8
	DestinationAddr    string
	EsmClass           uint8
	RegisteredDelivery uint8
	DataCoding         DataCoding
	Optional
}

func (p *DataSm) defaultID() CommandID { return DataSmID }

func (p *DataSm) encodeBody(w *writer) {
	w.cstring("service_type", p.ServiceType)
	w.u8("source_addr_ton", p.SourceAddrTon)
	w.u8("source_addr_npi", p.SourceAddrNpi)
	w.cstring("source_addr", p.SourceAddr)
	w.u8("dest_addr_ton", p.DestAddrTon)
	w.u8("dest_addr_npi", p.DestAddrNpi)
	w.cstring("destination_addr", p.DestinationAddr)
	w.u8("esm_class", p.EsmClass)
	w.u8("registered_delivery", p.RegisteredDelivery)
	w.u8("data_coding", uint8(p.DataCoding))
	w.tlvs(p.Tlvs)
}

func (p *DataSm) decodeBody(r *reader) {
	p.ServiceType = r.cstring()
	p.SourceAddrTon = r.u8()
	p.SourceAddrNpi = r.u8()
	p.SourceAddr = r.cstring()
	p.DestAddrTon = r.u8()
	p.DestAddrNpi = r.u8()
	p.DestinationAddr = r.cstring()
	p.EsmClass = r.u8()
	p.RegisteredDelivery = r.u8()
	p.DataCoding = DataCoding(r.u8())
	r.tlvs(&p.Tlvs)
}

// Message returns the user data carried in message_payload.
func (p *DataSm) Message() (UserData, error) {
	return message(UserData{}, p.EsmClass, p.Tlvs)
}

// MultiPart returns the segmentation info of the message, if any.
func (p *DataSm) MultiPart() (MultiPartData, bool) {
	return multiPart(UserData{}, p.EsmClass, p.Tlvs)
}

// DataSmResp answers data_sm.
type DataSmResp struct {
	Header
	MessageID string
	Optional
}

func (p *DataSmResp) defaultID() CommandID { return DataSmRespID }

func (p *DataSmResp) encodeBody(w *writer) {
	w.cstring("message_id", p.MessageID)
	w.tlvs(p.Tlvs)
}

func (p *DataSmResp) decodeBody(r *reader) {
	if r.remaining() == 0 {
		return
	}
	p.MessageID = r.cstring()
	r.tlvs(&p.Tlvs)
}

// CancelSm cancels a previously submitted message.
type CancelSm struct {
	Header
	ServiceType     string
	MessageID       string
	SourceAddrTon   uint8
	SourceAddrNpi   uint8
	SourceAddr      string
	DestAddrTon     uint8
	DestAddrNpi     uint8
	DestinationAddr string
	Optional
}

func (p *CancelSm) defaultID() CommandID { return CancelSmID }

func (p *CancelSm) encodeBody(w *writer) {
	w.cstring("service_type", p.ServiceType)
	w.cstring("message_id", p.MessageID)
	w.u8("source_addr_ton", p.SourceAddrTon)
	w.u8("source_addr_npi", p.SourceAddrNpi)
	w.cstring("source_addr", p.SourceAddr)
	w.u8("dest_addr_ton", p.DestAddrTon)
	w.u8("dest_addr_npi", p.DestAddrNpi)
	w.cstring("destination_addr", p.DestinationAddr)
	w.tlvs(p.Tlvs)
}

func (p *CancelSm) decodeBody(r *reader) {
	p.ServiceType = r.cstring()
	p.MessageID = r.cstring()
	p.SourceAddrTon = r.u8()
	p.SourceAddrNpi = r.u8()
	p.SourceAddr = r.cstring()
	p.DestAddrTon = r.u8()
	p.DestAddrNpi = r.u8()
	p.DestinationAddr = r.cstring()
	r.tlvs(&p.Tlvs)
}

// CancelSmResp answers cancel_sm.
type CancelSmResp struct {
	Header
	Optional
}

func (p *CancelSmResp) defaultID() CommandID { return CancelSmRespID }
func (p *CancelSmResp) encodeBody(w *writer) { w.tlvs(p.Tlvs) }
func (p *CancelSmResp) decodeBody(r *reader) { r.tlvs(&p.Tlvs) }

// QuerySm queries the state of a previously submitted message.
type QuerySm struct {
	Header
	MessageID     string
	SourceAddrTon uint8
	SourceAddrNpi uint8
	SourceAddr    string
	Optional
}

func (p *QuerySm) defaultID() CommandID { return QuerySmID }

func (p *QuerySm) encodeBody(w *writer) {
	w.cstring("message_id", p.MessageID)
	w.u8("source_addr_ton", p.SourceAddrTon)
	w.u8("source_addr_npi", p.SourceAddrNpi)
	w.cstring("source_addr", p.SourceAddr)
	w.tlvs(p.Tlvs)
}

func (p *QuerySm) decodeBody(r *reader) {
	p.MessageID = r.cstring()
	p.SourceAddrTon = r.u8()
	p.SourceAddrNpi = r.u8()
	p.SourceAddr = r.cstring()
	r.tlvs(&p.Tlvs)
}

// Message states reported by query_sm_resp.
const (
	StateEnroute       uint8 = 1
	StateDelivered     uint8 = 2
	StateExpired       uint8 = 3
	StateDeleted       uint8 = 4
	StateUndeliverable uint8 = 5
	StateAccepted      uint8 = 6
	StateUnknown       uint8 = 7
	StateRejected      uint8 = 8
)

// QuerySmResp answers query_sm.
type QuerySmResp struct {
	Header
	MessageID    string
	FinalDate    string
	MessageState uint8
	ErrorCode    uint8
	Optional
}

func (p *QuerySmResp) defaultID() CommandID { return QuerySmRespID }

func (p *QuerySmResp) encodeBody(w *writer) {
	w.cstring("message_id", p.MessageID)
	w.cstring("final_date", p.FinalDate)
	w.u8("message_state", p.MessageState)
	w.u8("error_code", p.ErrorCode)
	w.tlvs(p.Tlvs)
}

func (p *QuerySmResp) decodeBody(r *reader) {
	if r.remaining() == 0 {
		return
	}
	p.MessageID = r.cstring()
	p.FinalDate = r.cstring()
	p.MessageState = r.u8()
	p.ErrorCode = r.u8()
	r.tlvs(&p.Tlvs)
}

// EnquireLink probes the peer.
type EnquireLink struct {
	Header
	Optional
}

func (p *EnquireLink) defaultID() CommandID { return EnquireLinkID }
func (p *EnquireLink) encodeBody(w *writer) { w.tlvs(p.Tlvs) }
func (p *EnquireLink) decodeBody(r *reader) { r.tlvs(&p.Tlvs) }

// EnquireLinkResp answers enquire_link.
type EnquireLinkResp struct {
	Header
	Optional
}

func (p *EnquireLinkResp) defaultID() CommandID { return EnquireLinkRespID }
func (p *EnquireLinkResp) encodeBody(w *writer) { w.tlvs(p.Tlvs) }
func (p *EnquireLinkResp) decodeBody(r *reader) { r.tlvs(&p.Tlvs) }

// Unbind releases a bound session.
type Unbind struct {
	Header
	Optional
}

func (p *Unbind) defaultID() CommandID { return UnbindID }
func (p *Unbind) encodeBody(w *writer) { w.tlvs(p.Tlvs) }
func (p *Unbind) decodeBody(r *reader) { r.tlvs(&p.Tlvs) }

// UnbindResp answers unbind.
type UnbindResp struct {
	Header
	Optional
}

func (p *UnbindResp) defaultID() CommandID { return UnbindRespID }
func (p *UnbindResp) encodeBody(w *writer) { w.tlvs(p.Tlvs) }
func (p *UnbindResp) decodeBody(r *reader) { r.tlvs(&p.Tlvs) }

// GenericNack rejects a PDU that could not be handled at all.
type GenericNack struct {
	Header
	Optional
}

func (p *GenericNack) defaultID() CommandID { return GenericNackID }
func (p *GenericNack) encodeBody(w *writer) { w.tlvs(p.Tlvs) }
func (p *GenericNack) decodeBody(r *reader) { r.tlvs(&p.Tlvs) }

// AlertNotification tells the ESME that a mobile became available.
// It has no response.
type AlertNotification struct {
	Header
	SourceAddrTon uint8
	SourceAddrNpi uint8
	SourceAddr    string
	EsmeAddrTon   uint8
	EsmeAddrNpi   uint8
	EsmeAddr      string
	Optional
}

func (p *AlertNotification) defaultID() CommandID { return AlertNotificationID }

func (p *AlertNotification) encodeBody(w *writer) {
	w.u8("source_addr_ton", p.SourceAddrTon)
	w.u8("source_addr_npi", p.SourceAddrNpi)
	w.cstring("source_addr", p.SourceAddr)
	w.u8("esme_addr_ton", p.EsmeAddrTon)
	w.u8("esme_addr_npi", p.EsmeAddrNpi)
	w.cstring("esme_addr", p.EsmeAddr)
	w.tlvs(p.Tlvs)
}

func (p *AlertNotification) decodeBody(r *reader) {
	p.SourceAddrTon = r.u8()
	p.SourceAddrNpi = r.u8()
	p.SourceAddr = r.cstring()
	p.EsmeAddrTon = r.u8()
	p.EsmeAddrNpi = r.u8()
	p.EsmeAddr = r.cstring()
	r.tlvs(&p.Tlvs)
}

// Destination flags of submit_multi.
const (
	DestFlagSME uint8 = 1
	DestFlagDL  uint8 = 2
)

// DestAddress is one destination of submit_multi: an SME address when Flag
// is DestFlagSME, a distribution list name when it is DestFlagDL.
type DestAddress struct {
	Flag   uint8
	Ton    uint8
	Npi    uint8
	Addr   string
	DLName string
}

// SubmitMulti submits one message to several destinations.
type SubmitMulti struct {
	Header
	ServiceType   string
	SourceAddrTon uint8
	SourceAddrNpi uint8
	SourceAddr    string
	Destinations  []DestAddress
	Content
	Optional
}

func (p *SubmitMulti) defaultID() CommandID { return SubmitMultiID }

func (p *SubmitMulti) encodeBody(w *writer) {
	w.cstring("service_type", p.ServiceType)
	w.u8("source_addr_ton", p.SourceAddrTon)
	w.u8("source_addr_npi", p.SourceAddrNpi)
	w.cstring("source_addr", p.SourceAddr)
	w.u8("number_of_dests", uint8(len(p.Destinations)))
	for _, d := range p.Destinations {
		w.u8("dest_flag", d.Flag)
		if d.Flag == DestFlagDL {
			w.cstring("dl_name", d.DLName)
			continue
		}
		w.u8("dest_addr_ton", d.Ton)
		w.u8("dest_addr_npi", d.Npi)
		w.cstring("destination_addr", d.Addr)
	}
	p.encodeContent(w)
	w.tlvs(p.Tlvs)
}

func (p *SubmitMulti) decodeBody(r *reader) {
	p.ServiceType = r.cstring()
	p.SourceAddrTon = r.u8()
	p.SourceAddrNpi = r.u8()
	p.SourceAddr = r.cstring()
	n := int(r.u8())
	p.Destinations = nil
	for i := 0; i < n && r.err == nil; i++ {
		d := DestAddress{Flag: r.u8()}
		switch d.Flag {
		case DestFlagSME:
			d.Ton = r.u8()
			d.Npi = r.u8()
			d.Addr = r.cstring()
		case DestFlagDL:
			d.DLName = r.cstring()
		default:
			r.fail("unknown dest_flag")
		}
		p.Destinations = append(p.Destinations, d)
	}
	p.decodeContent(r)
	r.tlvs(&p.Tlvs)
}

// Message returns the user data carried in short_message or message_payload.
func (p *SubmitMulti) Message() (UserData, error) {
	return message(p.ShortMessage, p.EsmClass, p.Tlvs)
}

// UnsuccessSme is a destination submit_multi could not deliver to.
type UnsuccessSme struct {
	Ton    uint8
	Npi    uint8
	Addr   string
	Status Status
}

// SubmitMultiResp answers submit_multi.
type SubmitMultiResp struct {
	Header
	MessageID string
	Unsuccess []UnsuccessSme
	Optional
}

func (p *SubmitMultiResp) defaultID() CommandID { return SubmitMultiRespID }

func (p *SubmitMultiResp) encodeBody(w *writer) {
	w.cstring("message_id", p.MessageID)
	w.u8("no_unsuccess", uint8(len(p.Unsuccess)))
	for _, u := range p.Unsuccess {
		w.u8("dest_addr_ton", u.Ton)
		w.u8("dest_addr_npi", u.Npi)
		w.cstring("destination_addr", u.Addr)
		w.u32("error_status_code", uint32(u.Status))
	}
	w.tlvs(p.Tlvs)
}

func (p *SubmitMultiResp) decodeBody(r *reader) {
	if r.remaining() == 0 {
		return
	}
	p.MessageID = r.cstring()
	n := int(r.u8())
	p.Unsuccess = nil
	for i := 0; i < n && r.err == nil; i++ {
		p.Unsuccess = append(p.Unsuccess, UnsuccessSme{
			Ton:    r.u8(),
			Npi:    r.u8(),
			Addr:   r.cstring(),
			Status: Status(r.u32()),
		})
	}
	r.tlvs(&p.Tlvs)
}

// New returns an empty PDU for id, or nil when id is not supported.
func New(id CommandID) PDU {
	var p PDU
	switch id {
	case BindReceiverID, BindTransmitterID, BindTransceiverID:
		p = &Bind{}
	case BindReceiverRespID, BindTransmitterRespID, BindTransceiverRespID:
		p = &BindResp{}
	case SubmitSmID:
		p = &SubmitSm{}
	case SubmitSmRespID:
		p = &SubmitSmResp{}
	case DeliverSmID:
		p = &DeliverSm{}
	case DeliverSmRespID:
		p = &DeliverSmResp{}
	case DataSmID:
		p = &DataSm{}
	case DataSmRespID:
		p = &DataSmResp{}
	case CancelSmID:
		p = &CancelSm{}
	case CancelSmRespID:
		p = &CancelSmResp{}
	case QuerySmID:
		p = &QuerySm{}
	case QuerySmRespID:
		p = &QuerySmResp{}
	case EnquireLinkID:
		p = &EnquireLink{}
	case EnquireLinkRespID:
		p = &EnquireLinkResp{}
	case UnbindID:
		p = &Unbind{}
	case UnbindRespID:
		p = &UnbindResp{}
	case GenericNackID:
		p = &GenericNack{}
	case AlertNotificationID:
		p = &AlertNotification{}
	case SubmitMultiID:
		p = &SubmitMulti{}
	case SubmitMultiRespID:
		p = &SubmitMultiResp{}
	default:
		return nil
	}
	p.Head().CommandID = id
	return p
}

// NewResponse returns the response PDU answering req with status. The
// response of a request that has none is a generic_nack.
func NewResponse(req Header, status Status) PDU {
	p := New(req.CommandID.Response())
	if p == nil || req.CommandID.IsResponse() || req.CommandID == AlertNotificationID {
		p = &GenericNack{}
		*p.Head() = Header{CommandID: GenericNackID}
	}
	h := p.Head()
	h.Status = status
	h.Sequence = req.Sequence
	return p
}
