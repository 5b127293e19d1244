package smpp

import (
	"errors"
	"fmt"

	"github.com/majiddarvishan/smppsession/pdu"
	"github.com/majiddarvishan/smppsession/utility"
)

// SubmitMode selects where Prepare* puts the message text.
type SubmitMode int

const (
	// ModeShortMessage puts the text in short_message, truncated to one
	// short message.
	ModeShortMessage SubmitMode = iota
	// ModePayload puts the whole text in the message_payload parameter.
	ModePayload
)

// Address is a numbering plan qualified address.
type Address struct {
	Ton  uint8
	Npi  uint8
	Addr string
}

// encodeText encodes text with dc. A coding the encoder does not implement
// is replaced by the default alphabet and the coding actually used is
// returned.
func (s *Session) encodeText(text string, dc pdu.DataCoding) ([]byte, pdu.DataCoding, error) {
	b, err := s.conf.TextEncoder.Encode(text, dc)
	if errors.Is(err, utility.ErrUnsupportedEncoding) {
		s.log.Warn().Str("coding", dc.String()).Msg("unsupported data coding, using default alphabet")
		dc = pdu.CodingDefault
		b, err = s.conf.TextEncoder.Encode(text, dc)
	}
	if err != nil {
		return nil, dc, err
	}
	return b, dc, nil
}

// fit cuts content to a single short message.
func (s *Session) fit(content []byte, dc pdu.DataCoding) []byte {
	single, _ := s.segmenter.Limits(dc, utility.StrategyUDH8)
	if len(content) <= single {
		return content
	}
	s.log.Warn().Int("length", len(content)).Int("limit", single).Msg("message truncated to one short message")
	n := single
	if dc.Alphabet() == pdu.AlphabetUCS2 {
		n &^= 1
	}
	return content[:n]
}

func (s *Session) content(mode SubmitMode, text string, dc pdu.DataCoding) (pdu.Content, pdu.TlvCollection, error) {
	b, dc, err := s.encodeText(text, dc)
	if err != nil {
		return pdu.Content{}, nil, err
	}
	c := pdu.Content{DataCoding: dc}
	var tlvs pdu.TlvCollection
	switch mode {
	case ModeShortMessage:
		c.ShortMessage = pdu.UserData{Body: s.fit(b, dc)}
	case ModePayload:
		tlvs.AddMessagePayload(b)
	default:
		return pdu.Content{}, nil, fmt.Errorf("smpp: unknown submit mode %d", mode)
	}
	return c, tlvs, nil
}

// PrepareSubmit builds a submit_sm carrying text encoded with dc.
func (s *Session) PrepareSubmit(mode SubmitMode, src, dst Address, dc pdu.DataCoding, text string) (*pdu.SubmitSm, error) {
	c, tlvs, err := s.content(mode, text, dc)
	if err != nil {
		return nil, err
	}
	p := &pdu.SubmitSm{Header: pdu.Header{CommandID: pdu.SubmitSmID}}
	p.MessageFields = messageFields(src, dst, c)
	p.Tlvs = tlvs
	return p, nil
}

// PrepareSubmitLarge builds the submit_sm parts of text, segmented with
// strategy when it does not fit one short message. Every part shares one
// reference number.
func (s *Session) PrepareSubmitLarge(strategy utility.Strategy, src, dst Address, dc pdu.DataCoding, text string) ([]*pdu.SubmitSm, error) {
	b, dc, err := s.encodeText(text, dc)
	if err != nil {
		return nil, err
	}
	tmpl := &pdu.SubmitSm{}
	tmpl.MessageFields = messageFields(src, dst, pdu.Content{DataCoding: dc})
	return s.segmenter.SplitSubmit(tmpl, b, strategy)
}

// PrepareSubmitMulti builds a submit_multi carrying text encoded with dc.
func (s *Session) PrepareSubmitMulti(mode SubmitMode, src Address, dsts []pdu.DestAddress, dc pdu.DataCoding, text string) (*pdu.SubmitMulti, error) {
	c, tlvs, err := s.content(mode, text, dc)
	if err != nil {
		return nil, err
	}
	p := &pdu.SubmitMulti{
		Header:        pdu.Header{CommandID: pdu.SubmitMultiID},
		SourceAddrTon: src.Ton,
		SourceAddrNpi: src.Npi,
		SourceAddr:    src.Addr,
		Destinations:  dsts,
		Content:       c,
	}
	p.Tlvs = tlvs
	return p, nil
}

// PrepareDeliver builds a deliver_sm carrying text encoded with dc.
func (s *Session) PrepareDeliver(mode SubmitMode, src, dst Address, dc pdu.DataCoding, text string) (*pdu.DeliverSm, error) {
	c, tlvs, err := s.content(mode, text, dc)
	if err != nil {
		return nil, err
	}
	p := &pdu.DeliverSm{Header: pdu.Header{CommandID: pdu.DeliverSmID}}
	p.MessageFields = messageFields(src, dst, c)
	p.Tlvs = tlvs
	return p, nil
}

func messageFields(src, dst Address, c pdu.Content) pdu.MessageFields {
	return pdu.MessageFields{
		SourceAddrTon:   src.Ton,
		SourceAddrNpi:   src.Npi,
		SourceAddr:      src.Addr,
		DestAddrTon:     dst.Ton,
		DestAddrNpi:     dst.Npi,
		DestinationAddr: dst.Addr,
		Content:         c,
	}
}

// Text decodes the user data body of a received message with the session's
// encoder.
func (s *Session) Text(ud pdu.UserData, dc pdu.DataCoding) (string, error) {
	return s.conf.TextEncoder.Decode(ud.Body, dc)
}
