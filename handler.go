package smpp

import "github.com/majiddarvishan/smppsession/pdu"

// BindHandler approves or rejects an inbound bind. StatusOK binds the session.
type BindHandler interface {
	HandleBind(s *Session, req *pdu.Bind) pdu.Status
}

// UnbindHandler is told about an inbound unbind.
type UnbindHandler interface {
	HandleUnbind(s *Session, req *pdu.Unbind) pdu.Status
}

// SubmitHandler accepts an inbound submit_sm and returns the message id
// assigned to it.
type SubmitHandler interface {
	HandleSubmit(s *Session, req *pdu.SubmitSm) (messageID string, st pdu.Status)
}

// SubmitMultiHandler accepts an inbound submit_multi.
type SubmitMultiHandler interface {
	HandleSubmitMulti(s *Session, req *pdu.SubmitMulti) (messageID string, unsuccess []pdu.UnsuccessSme, st pdu.Status)
}

// DeliverHandler receives deliver_sm, including delivery receipts.
// Joining multi-part messages is up to the handler, see utility.MultiPartOf.
type DeliverHandler interface {
	HandleDeliver(s *Session, req *pdu.DeliverSm) pdu.Status
}

// DataHandler receives data_sm.
type DataHandler interface {
	HandleData(s *Session, req *pdu.DataSm) (messageID string, st pdu.Status)
}

// CancelHandler receives cancel_sm.
type CancelHandler interface {
	HandleCancel(s *Session, req *pdu.CancelSm) pdu.Status
}

// QueryHandler receives query_sm and fills the message state fields of resp.
type QueryHandler interface {
	HandleQuery(s *Session, req *pdu.QuerySm, resp *pdu.QuerySmResp) pdu.Status
}

// EnquireLinkHandler is told about inbound enquire_link.
type EnquireLinkHandler interface {
	HandleEnquireLink(s *Session, req *pdu.EnquireLink) pdu.Status
}

// AlertHandler receives alert_notification, which has no response.
type AlertHandler interface {
	HandleAlert(s *Session, req *pdu.AlertNotification)
}

// BindFunc adapts a function to BindHandler.
type BindFunc func(s *Session, req *pdu.Bind) pdu.Status

func (f BindFunc) HandleBind(s *Session, req *pdu.Bind) pdu.Status { return f(s, req) }

// UnbindFunc adapts a function to UnbindHandler.
type UnbindFunc func(s *Session, req *pdu.Unbind) pdu.Status

func (f UnbindFunc) HandleUnbind(s *Session, req *pdu.Unbind) pdu.Status { return f(s, req) }

// SubmitFunc adapts a function to SubmitHandler.
type SubmitFunc func(s *Session, req *pdu.SubmitSm) (string, pdu.Status)

func (f SubmitFunc) HandleSubmit(s *Session, req *pdu.SubmitSm) (string, pdu.Status) {
	return f(s, req)
}

// SubmitMultiFunc adapts a function to SubmitMultiHandler.
type SubmitMultiFunc func(s *Session, req *pdu.SubmitMulti) (string, []pdu.UnsuccessSme, pdu.Status)

func (f SubmitMultiFunc) HandleSubmitMulti(s *Session, req *pdu.SubmitMulti) (string, []pdu.UnsuccessSme, pdu.Status) {
	return f(s, req)
}

// DeliverFunc adapts a function to DeliverHandler.
type DeliverFunc func(s *Session, req *pdu.DeliverSm) pdu.Status

func (f DeliverFunc) HandleDeliver(s *Session, req *pdu.DeliverSm) pdu.Status { return f(s, req) }

// DataFunc adapts a function to DataHandler.
type DataFunc func(s *Session, req *pdu.DataSm) (string, pdu.Status)

func (f DataFunc) HandleData(s *Session, req *pdu.DataSm) (string, pdu.Status) { return f(s, req) }

// CancelFunc adapts a function to CancelHandler.
type CancelFunc func(s *Session, req *pdu.CancelSm) pdu.Status

func (f CancelFunc) HandleCancel(s *Session, req *pdu.CancelSm) pdu.Status { return f(s, req) }

// QueryFunc adapts a function to QueryHandler.
type QueryFunc func(s *Session, req *pdu.QuerySm, resp *pdu.QuerySmResp) pdu.Status

func (f QueryFunc) HandleQuery(s *Session, req *pdu.QuerySm, resp *pdu.QuerySmResp) pdu.Status {
	return f(s, req, resp)
}

// EnquireLinkFunc adapts a function to EnquireLinkHandler.
type EnquireLinkFunc func(s *Session, req *pdu.EnquireLink) pdu.Status

func (f EnquireLinkFunc) HandleEnquireLink(s *Session, req *pdu.EnquireLink) pdu.Status {
	return f(s, req)
}

// AlertFunc adapts a function to AlertHandler.
type AlertFunc func(s *Session, req *pdu.AlertNotification)

func (f AlertFunc) HandleAlert(s *Session, req *pdu.AlertNotification) { f(s, req) }

// Handlers holds the collaborators answering inbound requests. A nil handler
// answers with the default status for its kind.
//
// Handlers run on the receive goroutine. They must not wait for responses on
// the same session; Session.Send and the unbind path are fine, synchronous
// requests are not.
type Handlers struct {
	Bind        BindHandler
	Unbind      UnbindHandler
	Submit      SubmitHandler
	SubmitMulti SubmitMultiHandler
	Deliver     DeliverHandler
	Data        DataHandler
	Cancel      CancelHandler
	Query       QueryHandler
	EnquireLink EnquireLinkHandler
	Alert       AlertHandler
}

// Direction tells an Observer which way a PDU travels.
type Direction int

const (
	Received Direction = iota
	Sent
)

func (d Direction) String() string {
	if d == Sent {
		return "sent"
	}
	return "received"
}

// Observer sees every PDU the session sends or receives, with its field
// listing. A non-empty return value is stored in Header.ExternalID.
type Observer interface {
	Observe(dir Direction, p pdu.PDU, details []pdu.FieldDetail) string
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(dir Direction, p pdu.PDU, details []pdu.FieldDetail) string

func (f ObserverFunc) Observe(dir Direction, p pdu.PDU, details []pdu.FieldDetail) string {
	return f(dir, p, details)
}
