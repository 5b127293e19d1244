package smpp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/majiddarvishan/smppsession/pdu"
	"github.com/majiddarvishan/smppsession/utility"
)

// State is the connection state of a Session.
type State string

const (
	// StateClosed is the initial and terminal state: no transport.
	StateClosed State = "closed"
	// StateOpen means connected but not authenticated.
	StateOpen State = "open"
	// StateBound means authenticated.
	StateBound State = "bound"
)

const (
	eventConnect = "connect"
	eventBind    = "bind"
	eventUnbind  = "unbind"
	eventClose   = "close"
)

func newStateMachine(initial State, callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.NewFSM(
		string(initial),
		fsm.Events{
			{Name: eventConnect, Src: []string{string(StateClosed)}, Dst: string(StateOpen)},
			{Name: eventBind, Src: []string{string(StateOpen)}, Dst: string(StateBound)},
			{Name: eventUnbind, Src: []string{string(StateBound)}, Dst: string(StateOpen)},
			{Name: eventClose, Src: []string{string(StateOpen), string(StateBound)}, Dst: string(StateClosed)},
		},
		callbacks,
	)
}

// Session is one SMPP connection, as ESME (client) or SMSC (server). All
// methods are safe for concurrent use.
type Session struct {
	conf      SessionConf
	transport Transport
	server    bool
	log       zerolog.Logger

	state      *fsm.FSM
	mode       *atomic.Int32
	seq        *atomic.Uint32
	lastPdu    *atomic.Time
	lastSubmit *atomic.Time
	closed     *atomic.Bool

	framer     *FrameReassembler
	correlator *RequestCorrelator
	limiter    *rate.Limiter
	segmenter  *utility.Segmenter

	// sendMu serializes writes so that PDUs never interleave on the wire,
	// whatever the transport guarantees.
	sendMu sync.Mutex

	mu        sync.Mutex
	keepAlive *KeepAliveMonitor
}

// NewSession returns a closed client session running over t. Connect opens it.
func NewSession(t Transport, conf SessionConf) *Session {
	s := newSession(t, conf, StateClosed)
	t.Listen(sessionEvents{s})
	return s
}

// NewServerSession returns an open session over an accepted connection.
// The peer binds to it; SessionConf.Handlers.Bind approves the bind.
func NewServerSession(conn net.Conn, conf SessionConf) *Session {
	s := newSession(NewConnTransport(conn), conf, StateOpen)
	s.server = true
	s.log = s.log.With().Str("peer", conn.RemoteAddr().String()).Logger()
	s.lastPdu.Store(time.Now())
	s.startKeepAlive()
	s.transport.Listen(sessionEvents{s})
	return s
}

func newSession(t Transport, conf SessionConf, initial State) *Session {
	conf = conf.withDefaults()
	s := &Session{
		conf:       conf,
		transport:  t,
		log:        conf.Logger.With().Str("component", "smpp").Logger(),
		mode:       atomic.NewInt32(int32(pdu.Transceiver)),
		seq:        atomic.NewUint32(0),
		lastPdu:    atomic.NewTime(time.Time{}),
		lastSubmit: atomic.NewTime(time.Time{}),
		closed:     atomic.NewBool(false),
		framer:     NewFrameReassembler(),
		correlator: NewRequestCorrelator(),
		segmenter:  utility.NewSegmenter(conf.ShortMessageMaxBytes),
	}
	if conf.SubmitRate > 0 {
		burst := int(conf.SubmitRate)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(conf.SubmitRate), burst)
	}
	s.state = newStateMachine(initial, fsm.Callbacks{
		"enter_state":                 s.onStateChange,
		"enter_" + string(StateOpen):   s.onStateOpen,
		"enter_" + string(StateClosed): s.onStateClosed,
	})
	return s
}

func (s *Session) onStateChange(_ context.Context, e *fsm.Event) {
	s.log.Debug().Str("from", e.Src).Str("to", e.Dst).Str("event", e.Event).Msg("state transition")
}

func (s *Session) onStateOpen(_ context.Context, e *fsm.Event) {
	if e.Src == string(StateClosed) {
		s.startKeepAlive()
	}
}

func (s *Session) onStateClosed(_ context.Context, _ *fsm.Event) {
	s.stopKeepAlive()
	s.mode.Store(int32(pdu.Transceiver))
	if n := s.correlator.FailAll(pdu.StatusLocalDisconnected); n > 0 {
		s.log.Debug().Int("pending", n).Msg("released pending requests")
	}
}

// fire runs event on the state machine. Events that do not apply to the
// current state are ignored.
func (s *Session) fire(event string) {
	err := s.state.Event(context.Background(), event)
	if err == nil {
		return
	}
	var invalid fsm.InvalidEventError
	var none fsm.NoTransitionError
	if errors.As(err, &invalid) || errors.As(err, &none) {
		return
	}
	s.log.Warn().Err(err).Str("event", event).Msg("state transition failed")
}

// Connect opens the transport to host:port and moves the session to Open.
func (s *Session) Connect(host string, port int) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if st := s.Status(); st != StateClosed {
		return fmt.Errorf("smpp: connect: session is %s", st)
	}
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	if err := s.transport.Connect(host, port); err != nil {
		return &ConnectionError{Op: "connect", Addr: addr, Err: err}
	}
	s.lastPdu.Store(time.Now())
	s.fire(eventConnect)
	s.log.Info().Str("addr", addr).Msg("connected")
	return nil
}

// Disconnect closes the transport. Pending requests are resolved with
// StatusLocalDisconnected. A client session may Connect again.
func (s *Session) Disconnect() error {
	err := s.transport.Disconnect()
	s.fire(eventClose)
	if err != nil {
		return &ConnectionError{Op: "disconnect", Err: err}
	}
	return nil
}

// Close disconnects and disposes the session. It cannot be reused.
func (s *Session) Close() error {
	s.closed.Store(true)
	err := s.Disconnect()
	s.correlator.Close()
	return err
}

// Status returns the current connection state.
func (s *Session) Status() State {
	return State(s.state.Current())
}

// Mode returns the bind mode. It is meaningful only while bound.
func (s *Session) Mode() pdu.BindMode {
	return pdu.BindMode(s.mode.Load())
}

// IsServer reports whether the session was accepted rather than dialed.
func (s *Session) IsServer() bool {
	return s.server
}

// LastPduAt returns when the last PDU was received.
func (s *Session) LastPduAt() time.Time {
	return s.lastPdu.Load()
}

// LastSubmitAt returns when the last submit was sent.
func (s *Session) LastSubmitAt() time.Time {
	return s.lastSubmit.Load()
}

// Pending returns the number of requests waiting for a response.
func (s *Session) Pending() int {
	return s.correlator.Len()
}

func (s *Session) nextSequence() uint32 {
	for {
		cur := s.seq.Load()
		next := cur + 1
		if next > SequenceEnd {
			next = SequenceStart
		}
		if s.seq.CompareAndSwap(cur, next) {
			return next
		}
	}
}

func (s *Session) setBound(mode pdu.BindMode) {
	s.mode.Store(int32(mode))
	s.fire(eventBind)
}

func (s *Session) observe(dir Direction, p pdu.PDU) {
	if s.conf.Observer == nil {
		return
	}
	if id := s.conf.Observer.Observe(dir, p, pdu.Details(p)); id != "" {
		p.Head().ExternalID = id
	}
}

// Send encodes p and writes it without waiting for anything. Requests with
// a zero sequence number get the next one. Use it for responses built by
// hand and for PDUs whose response is not awaited.
func (s *Session) Send(p pdu.PDU) error {
	if p == nil {
		return errors.New("smpp: nil pdu")
	}
	h := p.Head()
	if h.Sequence == 0 && !pdu.KindOf(p).IsResponse() {
		h.Sequence = s.nextSequence()
	}
	return s.send(p)
}

func (s *Session) send(p pdu.PDU) error {
	b, err := pdu.Encode(p)
	if err != nil {
		return err
	}
	s.observe(Sent, p)
	return s.write(b)
}

func (s *Session) write(b []byte) error {
	if !s.transport.IsAvailable() {
		return ErrNotConnected
	}
	s.sendMu.Lock()
	err := s.transport.Send(b)
	s.sendMu.Unlock()
	if err != nil {
		return &ConnectionError{Op: "send", Err: err}
	}
	return nil
}

// check returns the local failure for a request of kind h in the current
// state, or nil when the request may go out.
func (s *Session) check(h pdu.Header, needBound bool) (pdu.PDU, error) {
	switch s.Status() {
	case StateClosed:
		return pdu.NewResponse(h, pdu.StatusLocalNoConn), ErrNotConnected
	case StateOpen:
		if needBound {
			return pdu.NewResponse(h, pdu.StatusLocalUnbound), ErrNotBound
		}
	}
	return nil, nil
}

// request sends p and blocks for its response. The returned PDU is never
// nil: local failures come back as a response of the expected kind carrying
// a local status, together with the matching error.
func (s *Session) request(ctx context.Context, p pdu.PDU, needBound bool) (pdu.PDU, error) {
	h := p.Head()
	h.CommandID = pdu.KindOf(p)
	h.Sequence = s.nextSequence()
	if resp, err := s.check(*h, needBound); resp != nil {
		return resp, err
	}

	b, err := pdu.Encode(p)
	if err != nil {
		return nil, err
	}
	handshake := h.CommandID.IsBind() || h.CommandID == pdu.UnbindID
	w, err := s.correlator.Register(*h, handshake)
	if err != nil {
		st := pdu.StatusLocalUnknownError
		if errors.Is(err, ErrClosed) {
			st = pdu.StatusLocalDisconnected
		}
		return pdu.NewResponse(*h, st), err
	}

	s.observe(Sent, p)
	if err := s.write(b); err != nil {
		s.correlator.Cancel(w)
		if !errors.Is(err, ErrNotConnected) {
			s.log.Warn().Err(err).Str("command", h.CommandID.String()).Msg("send failed, disconnecting")
			_ = s.Disconnect()
		}
		return pdu.NewResponse(*h, pdu.StatusLocalNoConn), err
	}

	resp := s.correlator.Wait(ctx, w, s.conf.WindowTimeout)
	st := resp.Head().Status
	if st == pdu.StatusLocalTimeout {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		s.log.Debug().Str("command", h.CommandID.String()).Uint32("sequence", h.Sequence).Msg("response timeout")
	}
	return resp, statusError(st)
}

// call is request with the response typed as the caller expects it.
func call[T pdu.PDU](ctx context.Context, s *Session, p pdu.PDU, needBound bool) (T, error) {
	var zero T
	resp, err := s.request(ctx, p, needBound)
	if resp == nil {
		return zero, err
	}
	out, ok := resp.(T)
	if !ok {
		return zero, ErrUnexpectedResponse
	}
	return out, err
}

func (s *Session) startKeepAlive() {
	if s.conf.EnquireInterval < 0 {
		return
	}
	k := NewKeepAliveMonitor(s.conf.EnquireInterval, s.conf.IdleThreshold, s.LastPduAt, s.probe, s.keepAliveFailed)
	s.mu.Lock()
	old := s.keepAlive
	s.keepAlive = k
	s.mu.Unlock()
	if old != nil {
		old.Stop()
	}
	k.Start()
}

func (s *Session) stopKeepAlive() {
	s.mu.Lock()
	k := s.keepAlive
	s.keepAlive = nil
	s.mu.Unlock()
	if k != nil {
		k.Stop()
	}
}

func (s *Session) probe() error {
	resp, err := s.EnquireLink(context.Background())
	if err != nil {
		return err
	}
	if resp.Status != pdu.StatusOK {
		return resp.Status
	}
	return nil
}

func (s *Session) keepAliveFailed(err error) {
	s.log.Warn().Err(err).Msg("enquire_link failed, disconnecting")
	_ = s.Disconnect()
}

// sessionEvents receives transport callbacks without exposing them on Session.
type sessionEvents struct {
	s *Session
}

func (e sessionEvents) OnReceive(data []byte) {
	e.s.receive(data)
}

func (e sessionEvents) OnClose(err error) {
	if err != nil {
		e.s.log.Warn().Err(err).Msg("connection lost")
	} else {
		e.s.log.Info().Msg("connection closed")
	}
	// runs after the last OnReceive of the connection
	e.s.framer.Reset()
	e.s.fire(eventClose)
}
