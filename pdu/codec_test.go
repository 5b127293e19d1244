package pdu

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePDUs() []PDU {
	bind := NewBind(Transmitter)
	bind.SystemID = "esme"
	bind.Password = "secret"
	bind.SystemType = "VMA"
	bind.AddrTon = 1
	bind.AddrNpi = 1
	bind.AddressRange = "^98"

	submit := &SubmitSm{}
	submit.ServiceType = "CMT"
	submit.SourceAddrTon = 5
	submit.SourceAddr = "sender"
	submit.DestAddrTon = 1
	submit.DestAddrNpi = 1
	submit.DestinationAddr = "989120000000"
	submit.EsmClass = WithUDHI(0, true)
	submit.RegisteredDelivery = WithReceipt(0, ReceiptAlways)
	submit.DataCoding = CodingUCS2
	submit.ValidityPeriod = "000001000000000R"
	submit.ShortMessage.Body = []byte{0x00, 0x48, 0x00, 0x69}
	submit.ShortMessage.AddConcat8(MultiPartData{Ref: 7, Total: 2, Seq: 1})
	submit.Tlvs.AddMoreMessagesToSend(true)

	deliver := &DeliverSm{}
	deliver.SourceAddr = "989120000000"
	deliver.DestinationAddr = "1000"
	deliver.EsmClass = WithMessageType(0, TypeDeliveryReceipt)
	deliver.ShortMessage.Body = []byte("id:1 stat:DELIVRD")

	data := &DataSm{SourceAddr: "a", DestinationAddr: "b", DataCoding: CodingBinary}
	data.Tlvs.AddMessagePayload([]byte{1, 2, 3})

	multi := &SubmitMulti{
		SourceAddr: "src",
		Destinations: []DestAddress{
			{Flag: DestFlagSME, Ton: 1, Npi: 1, Addr: "111"},
			{Flag: DestFlagDL, DLName: "friends"},
		},
	}
	multi.ShortMessage.Body = []byte("hello")

	return []PDU{
		bind,
		&BindResp{Header: Header{CommandID: BindTransmitterRespID}, SystemID: "smsc"},
		submit,
		&SubmitSmResp{MessageID: "abc123"},
		deliver,
		&DeliverSmResp{},
		data,
		&DataSmResp{MessageID: "d1"},
		&CancelSm{ServiceType: "CMT", MessageID: "abc123", SourceAddr: "s", DestinationAddr: "d"},
		&CancelSmResp{},
		&QuerySm{MessageID: "abc123", SourceAddrTon: 1, SourceAddr: "s"},
		&QuerySmResp{MessageID: "abc123", FinalDate: "240101000000000+", MessageState: StateDelivered},
		&EnquireLink{},
		&EnquireLinkResp{},
		&Unbind{},
		&UnbindResp{},
		&AlertNotification{SourceAddr: "111", EsmeAddr: "222"},
		&GenericNack{Header: Header{Status: StatusInvCmdID}},
		multi,
		&SubmitMultiResp{MessageID: "m1", Unsuccess: []UnsuccessSme{{Ton: 1, Npi: 1, Addr: "111", Status: StatusInvDstAdr}}},
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	for i, p := range samplePDUs() {
		p.Head().Sequence = uint32(i + 1)
		b, err := Encode(p)
		require.NoError(t, err)
		require.Equal(t, uint32(len(b)), binary.BigEndian.Uint32(b), "length of %s", p.Head().CommandID)
		require.Equal(t, uint32(len(b)), p.Head().Length)

		got, err := Decode(b)
		require.NoError(t, err, p.Head().CommandID.String())
		require.Equal(t, p, got, p.Head().CommandID.String())
	}
}

func TestEncodeFillsCommandID(t *testing.T) {
	p := &SubmitSm{}
	_, err := Encode(p)
	require.NoError(t, err)
	require.Equal(t, SubmitSmID, p.CommandID)
}

func TestEncodeSetsUDHIWithHeaders(t *testing.T) {
	p := &SubmitSm{}
	p.ShortMessage.Body = []byte("x")
	p.ShortMessage.AddConcat16(MultiPartData{Ref: 0x1234, Total: 3, Seq: 2})
	b, err := Encode(p)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	sm := got.(*SubmitSm)
	require.True(t, HasUDHI(sm.EsmClass))
	mpd, ok := sm.MultiPart()
	require.True(t, ok)
	require.Equal(t, MultiPartData{Ref: 0x1234, Total: 3, Seq: 2}, mpd)
}

func TestEncodeRejectsLongShortMessage(t *testing.T) {
	p := &SubmitSm{}
	p.ShortMessage.Body = make([]byte, MaxShortMessageLength+1)
	_, err := Encode(p)
	require.Error(t, err)
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	require.Error(t, err)
}

func TestDecodeHeaderShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 10), 0)
	require.ErrorIs(t, err, ErrFraming)

	b := make([]byte, 20)
	binary.BigEndian.PutUint32(b[4:], 2)
	_, err = DecodeHeader(b, 4)
	require.ErrorIs(t, err, ErrFraming)
}

func TestDecodeHeaderLengthBelowHeader(t *testing.T) {
	b := make([]byte, HeaderLength)
	binary.BigEndian.PutUint32(b, 2)
	_, err := DecodeHeader(b, 0)
	require.ErrorIs(t, err, ErrFraming)
}

func TestDecodeBodyTruncatedField(t *testing.T) {
	b, err := Encode(&QuerySm{MessageID: "abc", SourceAddr: "s"})
	require.NoError(t, err)

	// cut the declared length inside source_addr_ton
	short := append([]byte(nil), b[:HeaderLength+4]...)
	binary.BigEndian.PutUint32(short, uint32(len(short)))
	_, err = Decode(short)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeBodyUnterminatedString(t *testing.T) {
	b := make([]byte, HeaderLength+3)
	binary.BigEndian.PutUint32(b, uint32(len(b)))
	binary.BigEndian.PutUint32(b[4:], uint32(SubmitSmRespID))
	copy(b[HeaderLength:], "abc")
	_, err := Decode(b)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeBodyUnknownCommand(t *testing.T) {
	b := make([]byte, HeaderLength)
	binary.BigEndian.PutUint32(b, HeaderLength)
	binary.BigEndian.PutUint32(b[4:], 0x00000077)
	_, err := Decode(b)
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDecodeBodyRegionShorterThanDeclared(t *testing.T) {
	b, err := Encode(&EnquireLink{})
	require.NoError(t, err)
	binary.BigEndian.PutUint32(b, 40)
	h, err := DecodeHeader(b, 0)
	require.NoError(t, err)
	_, err = DecodeBody(h, b, 0)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeNegativeResponseWithoutBody(t *testing.T) {
	b := make([]byte, HeaderLength)
	binary.BigEndian.PutUint32(b, HeaderLength)
	binary.BigEndian.PutUint32(b[4:], uint32(SubmitSmRespID))
	binary.BigEndian.PutUint32(b[8:], uint32(StatusThrottled))
	binary.BigEndian.PutUint32(b[12:], 9)

	p, err := Decode(b)
	require.NoError(t, err)
	resp := p.(*SubmitSmResp)
	assert.Equal(t, StatusThrottled, resp.Status)
	assert.Equal(t, uint32(9), resp.Sequence)
	assert.Empty(t, resp.MessageID)
}

func TestDecodeKeepsDuplicateTlvs(t *testing.T) {
	p := &DataSm{}
	p.Tlvs.Add(Tlv{Tag: TagUserMessageReference, Value: []byte{0, 1}})
	p.Tlvs.Add(Tlv{Tag: TagUserMessageReference, Value: []byte{0, 2}})
	b, err := Encode(p)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	tlvs := *got.Options()
	require.Len(t, tlvs, 2)
	first, ok := tlvs.Get(TagUserMessageReference)
	require.True(t, ok)
	v, _ := first.Uint16()
	require.Equal(t, uint16(1), v)
}

func TestDecodeAtOffset(t *testing.T) {
	a, err := Encode(&EnquireLink{Header: Header{Sequence: 1}})
	require.NoError(t, err)
	q, err := Encode(&QuerySm{Header: Header{Sequence: 2}, MessageID: "x"})
	require.NoError(t, err)
	stream := append(a, q...)

	h, err := DecodeHeader(stream, len(a))
	require.NoError(t, err)
	p, err := DecodeBody(h, stream, len(a))
	require.NoError(t, err)
	require.Equal(t, "x", p.(*QuerySm).MessageID)
}

func TestNewResponse(t *testing.T) {
	req := Header{CommandID: SubmitSmID, Sequence: 42}
	p := NewResponse(req, StatusSubmitFail)
	require.IsType(t, &SubmitSmResp{}, p)
	require.Equal(t, Header{CommandID: SubmitSmRespID, Status: StatusSubmitFail, Sequence: 42}, *p.Head())

	p = NewResponse(Header{CommandID: 0x77, Sequence: 3}, StatusInvCmdID)
	require.IsType(t, &GenericNack{}, p)
	require.Equal(t, uint32(3), p.Head().Sequence)
}

func TestDetails(t *testing.T) {
	q := &QuerySm{Header: Header{Sequence: 5}, MessageID: "abc", SourceAddr: "s"}
	q.Tlvs.AddMessagePayload([]byte{0xAB})
	d := Details(q)
	require.Len(t, d, 4+4+1)
	assert.Equal(t, "command_length", d[0].Name)
	assert.Equal(t, "query_sm", d[1].Value)
	assert.Equal(t, "message_id", d[4].Name)
	assert.Equal(t, "abc", d[4].Value)
	assert.Equal(t, FieldTLV, d[8].Kind)
	assert.Equal(t, "message_payload", d[8].Name)
	assert.Equal(t, "ab", d[8].Value)
}

func TestHeaderReply(t *testing.T) {
	h := Header{CommandID: EnquireLinkID, Sequence: 11}
	r := h.Reply(StatusOK)
	require.Equal(t, EnquireLinkRespID, r.CommandID)
	require.Equal(t, uint32(11), r.Sequence)
}
