package smpp

import (
	"errors"
	"time"

	"github.com/majiddarvishan/smppsession/pdu"
)

// receive runs on the transport's receive goroutine for every chunk of bytes.
func (s *Session) receive(data []byte) {
	if err := s.framer.Feed(data, s.dispatch); err != nil {
		s.log.Error().Err(err).Hex("trail", s.framer.Trail()).Msg("framing error, receive buffer discarded")
	}
}

func (s *Session) dispatch(h pdu.Header, frame []byte) {
	s.lastPdu.Store(time.Now())
	p, err := pdu.DecodeBody(h, frame, 0)
	if err != nil {
		s.undecodable(h, err)
		return
	}
	s.observe(Received, p)
	if h.CommandID.IsResponse() {
		s.handleResponse(p)
		return
	}
	s.handleRequest(p)
}

// undecodable answers a frame whose body could not be decoded so that the
// peer, or the local caller, is never left waiting.
func (s *Session) undecodable(h pdu.Header, err error) {
	s.log.Warn().Err(err).Str("command", h.CommandID.String()).Uint32("sequence", h.Sequence).Msg("undecodable pdu")
	switch {
	case h.CommandID.IsResponse():
		s.correlator.Fail(h.Sequence, pdu.StatusLocalUnexpectedResp)
	case errors.Is(err, pdu.ErrUnknownCommand):
		s.reply(&pdu.GenericNack{Header: pdu.Header{
			CommandID: pdu.GenericNackID,
			Status:    pdu.StatusInvCmdID,
			Sequence:  h.Sequence,
		}})
	case h.CommandID == pdu.AlertNotificationID:
		// no response exists for alert_notification
	default:
		s.reply(pdu.NewResponse(h, pdu.StatusSysErr))
	}
}

func (s *Session) reply(resp pdu.PDU) bool {
	if err := s.send(resp); err != nil {
		s.log.Warn().Err(err).Str("command", resp.Head().CommandID.String()).Msg("response not sent")
		return false
	}
	return true
}

func (s *Session) handleResponse(p pdu.PDU) {
	h := p.Head()
	if h.CommandID == pdu.GenericNackID {
		if s.correlator.ResolveHandshakes(p) > 0 {
			return
		}
	} else if req, ok := s.correlator.Pending(h.Sequence); ok && h.Status == pdu.StatusOK && req.CommandID.Response() == h.CommandID {
		// the state changes before the caller wakes up and before the next
		// inbound PDU is dispatched
		switch {
		case req.CommandID.IsBind():
			s.setBound(pdu.ModeOf(req.CommandID))
		case req.CommandID == pdu.UnbindID:
			s.fire(eventUnbind)
		}
	}
	if !s.correlator.Resolve(p) {
		s.log.Debug().Str("command", h.CommandID.String()).Uint32("sequence", h.Sequence).Msg("unsolicited response")
	}
}

func (s *Session) handleRequest(p pdu.PDU) {
	if alert, ok := p.(*pdu.AlertNotification); ok {
		s.handleAlert(alert)
		return
	}
	resp, after := s.answer(p)
	if s.reply(resp) && after != nil {
		after()
	}
}

func (s *Session) handleAlert(p *pdu.AlertNotification) {
	if s.conf.Handlers.Alert == nil {
		return
	}
	defer s.recoverHandler(p.Header, nil)
	s.conf.Handlers.Alert.HandleAlert(s, p)
}

func (s *Session) recoverHandler(h pdu.Header, resp *pdu.PDU) {
	r := recover()
	if r == nil {
		return
	}
	s.log.Error().Interface("panic", r).Str("command", h.CommandID.String()).Msg("handler panicked")
	if resp != nil {
		*resp = pdu.NewResponse(h, pdu.StatusSysErr)
	}
}

func requiresBound(id pdu.CommandID) bool {
	switch id {
	case pdu.SubmitSmID, pdu.SubmitMultiID, pdu.DeliverSmID, pdu.DataSmID,
		pdu.QuerySmID, pdu.CancelSmID, pdu.UnbindID:
		return true
	}
	return false
}

// answer asks the collaborator for the status of p and builds the response.
// It also returns the state change to apply once the response is written.
// Dispatch is sequential, so requests pipelined behind a bind still see the
// session bound.
func (s *Session) answer(p pdu.PDU) (resp pdu.PDU, after func()) {
	h := *p.Head()
	defer s.recoverHandler(h, &resp)

	if requiresBound(h.CommandID) && s.Status() != StateBound {
		return pdu.NewResponse(h, pdu.StatusInvBnd), nil
	}

	hs := s.conf.Handlers
	switch v := p.(type) {
	case *pdu.Bind:
		r := pdu.NewResponse(h, pdu.StatusBindFail).(*pdu.BindResp)
		if s.Status() == StateBound {
			r.Status = pdu.StatusAlyBnd
			return r, nil
		}
		if hs.Bind != nil {
			r.Status = hs.Bind.HandleBind(s, v)
		}
		if r.Status == pdu.StatusOK {
			r.SystemID = s.conf.SystemID
			mode := v.Mode()
			return r, func() { s.setBound(mode) }
		}
		return r, nil

	case *pdu.Unbind:
		st := pdu.StatusOK
		if hs.Unbind != nil {
			st = hs.Unbind.HandleUnbind(s, v)
		}
		if st == pdu.StatusOK {
			return pdu.NewResponse(h, st), func() { s.fire(eventUnbind) }
		}
		return pdu.NewResponse(h, st), nil

	case *pdu.SubmitSm:
		r := pdu.NewResponse(h, pdu.StatusSubmitFail).(*pdu.SubmitSmResp)
		if hs.Submit != nil {
			r.MessageID, r.Status = hs.Submit.HandleSubmit(s, v)
		}
		return r, nil

	case *pdu.SubmitMulti:
		r := pdu.NewResponse(h, pdu.StatusSubmitFail).(*pdu.SubmitMultiResp)
		if hs.SubmitMulti != nil {
			r.MessageID, r.Unsuccess, r.Status = hs.SubmitMulti.HandleSubmitMulti(s, v)
		}
		return r, nil

	case *pdu.DeliverSm:
		st := pdu.StatusOK
		if hs.Deliver != nil {
			st = hs.Deliver.HandleDeliver(s, v)
		}
		return pdu.NewResponse(h, st), nil

	case *pdu.DataSm:
		r := pdu.NewResponse(h, pdu.StatusOK).(*pdu.DataSmResp)
		if hs.Data != nil {
			r.MessageID, r.Status = hs.Data.HandleData(s, v)
		}
		return r, nil

	case *pdu.CancelSm:
		st := pdu.StatusCancelFail
		if hs.Cancel != nil {
			st = hs.Cancel.HandleCancel(s, v)
		}
		return pdu.NewResponse(h, st), nil

	case *pdu.QuerySm:
		r := pdu.NewResponse(h, pdu.StatusSysErr).(*pdu.QuerySmResp)
		if hs.Query != nil {
			r.MessageID = v.MessageID
			r.Status = hs.Query.HandleQuery(s, v, r)
		}
		return r, nil

	case *pdu.EnquireLink:
		st := pdu.StatusOK
		if hs.EnquireLink != nil {
			st = hs.EnquireLink.HandleEnquireLink(s, v)
		}
		return pdu.NewResponse(h, st), nil
	}
	return pdu.NewResponse(h, pdu.StatusInvCmdID), nil
}
