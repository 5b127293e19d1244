package smpp

import (
	"context"
	"errors"
	"time"

	"github.com/majiddarvishan/smppsession/pdu"
)

// Bind authenticates an open session. A response with StatusOK moves the
// session to Bound.
func (s *Session) Bind(ctx context.Context, mode pdu.BindMode, systemID, password string) (*pdu.BindResp, error) {
	if systemID == "" || password == "" {
		return nil, errors.New("smpp: bind needs a system id and a password")
	}
	if s.Status() == StateBound {
		return nil, ErrAlreadyBound
	}
	req := pdu.NewBind(mode)
	req.SystemID = systemID
	req.Password = password
	req.SystemType = s.conf.SystemType
	req.AddrTon = s.conf.AddrTon
	req.AddrNpi = s.conf.AddrNpi
	req.AddressRange = s.conf.AddressRange
	return call[*pdu.BindResp](ctx, s, req, false)
}

// Unbind releases a bound session. The transport stays open; a response with
// StatusOK moves the session back to Open.
func (s *Session) Unbind(ctx context.Context) (*pdu.UnbindResp, error) {
	return call[*pdu.UnbindResp](ctx, s, &pdu.Unbind{}, true)
}

// EnquireLink probes the peer. It works on open and bound sessions.
func (s *Session) EnquireLink(ctx context.Context) (*pdu.EnquireLinkResp, error) {
	return call[*pdu.EnquireLinkResp](ctx, s, &pdu.EnquireLink{}, false)
}

// Submit sends a submit_sm, honoring SessionConf.SubmitRate.
func (s *Session) Submit(ctx context.Context, p *pdu.SubmitSm) (*pdu.SubmitSmResp, error) {
	if p == nil {
		return nil, errors.New("smpp: nil submit_sm")
	}
	if p.DestinationAddr == "" {
		return nil, errors.New("smpp: submit_sm without destination address")
	}
	if err := s.throttle(ctx); err != nil {
		h := pdu.Header{CommandID: pdu.SubmitSmID}
		return pdu.NewResponse(h, pdu.StatusLocalTimeout).(*pdu.SubmitSmResp), err
	}
	s.lastSubmit.Store(time.Now())
	return call[*pdu.SubmitSmResp](ctx, s, p, true)
}

// SubmitBatch submits ps in order, typically the parts of one segmented
// message. It stops at the first part that is not accepted and returns the
// responses collected so far.
func (s *Session) SubmitBatch(ctx context.Context, ps []*pdu.SubmitSm) ([]*pdu.SubmitSmResp, error) {
	out := make([]*pdu.SubmitSmResp, 0, len(ps))
	for _, p := range ps {
		resp, err := s.Submit(ctx, p)
		if resp != nil {
			out = append(out, resp)
		}
		if err != nil {
			return out, err
		}
		if resp.Status != pdu.StatusOK {
			return out, resp.Status
		}
	}
	return out, nil
}

// SubmitMulti sends one message to several destinations.
func (s *Session) SubmitMulti(ctx context.Context, p *pdu.SubmitMulti) (*pdu.SubmitMultiResp, error) {
	if p == nil {
		return nil, errors.New("smpp: nil submit_multi")
	}
	if len(p.Destinations) == 0 {
		return nil, errors.New("smpp: submit_multi without destinations")
	}
	if err := s.throttle(ctx); err != nil {
		h := pdu.Header{CommandID: pdu.SubmitMultiID}
		return pdu.NewResponse(h, pdu.StatusLocalTimeout).(*pdu.SubmitMultiResp), err
	}
	s.lastSubmit.Store(time.Now())
	return call[*pdu.SubmitMultiResp](ctx, s, p, true)
}

// Query asks for the state of a submitted message.
func (s *Session) Query(ctx context.Context, p *pdu.QuerySm) (*pdu.QuerySmResp, error) {
	if p == nil || p.MessageID == "" {
		return nil, errors.New("smpp: query_sm needs a message id")
	}
	return call[*pdu.QuerySmResp](ctx, s, p, true)
}

// Cancel cancels a submitted message.
func (s *Session) Cancel(ctx context.Context, p *pdu.CancelSm) (*pdu.CancelSmResp, error) {
	if p == nil {
		return nil, errors.New("smpp: nil cancel_sm")
	}
	return call[*pdu.CancelSmResp](ctx, s, p, true)
}

// Data sends a data_sm.
func (s *Session) Data(ctx context.Context, p *pdu.DataSm) (*pdu.DataSmResp, error) {
	if p == nil {
		return nil, errors.New("smpp: nil data_sm")
	}
	if p.DestinationAddr == "" {
		return nil, errors.New("smpp: data_sm without destination address")
	}
	return call[*pdu.DataSmResp](ctx, s, p, true)
}

// Deliver sends a deliver_sm, usually from a server session.
func (s *Session) Deliver(ctx context.Context, p *pdu.DeliverSm) (*pdu.DeliverSmResp, error) {
	if p == nil {
		return nil, errors.New("smpp: nil deliver_sm")
	}
	if p.DestinationAddr == "" {
		return nil, errors.New("smpp: deliver_sm without destination address")
	}
	return call[*pdu.DeliverSmResp](ctx, s, p, true)
}

// SendAlert sends an alert_notification. It has no response.
func (s *Session) SendAlert(p *pdu.AlertNotification) error {
	if p == nil {
		return errors.New("smpp: nil alert_notification")
	}
	switch s.Status() {
	case StateClosed:
		return ErrNotConnected
	case StateOpen:
		return ErrNotBound
	}
	return s.Send(p)
}

func (s *Session) throttle(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
