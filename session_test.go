package smpp

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majiddarvishan/smppsession/pdu"
)

// fakeTransport records what the session sends and lets the test play the
// peer by feeding bytes back.
type fakeTransport struct {
	mu        sync.Mutex
	events    TransportEvents
	available bool
	sendErr   error
	sent      chan []byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: make(chan []byte, 64)}
}

func (f *fakeTransport) Connect(host string, port int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.available = true
	return nil
}

func (f *fakeTransport) Disconnect() error {
	f.mu.Lock()
	was := f.available
	f.available = false
	events := f.events
	f.mu.Unlock()
	if was && events != nil {
		events.OnClose(nil)
	}
	return nil
}

func (f *fakeTransport) Send(b []byte) error {
	if !f.IsAvailable() {
		return ErrNotConnected
	}
	f.mu.Lock()
	err := f.sendErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.sent <- append([]byte(nil), b...)
	return nil
}

func (f *fakeTransport) IsAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeTransport) Listen(events TransportEvents) {
	f.mu.Lock()
	f.events = events
	f.mu.Unlock()
}

func (f *fakeTransport) feed(b []byte) {
	f.events.OnReceive(b)
}

func (f *fakeTransport) deliver(t *testing.T, p pdu.PDU) {
	t.Helper()
	b, err := pdu.Encode(p)
	require.NoError(t, err)
	f.feed(b)
}

func (f *fakeTransport) next(t *testing.T) pdu.PDU {
	t.Helper()
	select {
	case b := <-f.sent:
		p, err := pdu.Decode(b)
		require.NoError(t, err)
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("nothing sent")
		return nil
	}
}

func (f *fakeTransport) quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case b := <-f.sent:
		t.Fatalf("unexpected pdu sent: % x", b)
	case <-time.After(d):
	}
}

func openSession(t *testing.T, conf SessionConf) (*Session, *fakeTransport) {
	t.Helper()
	if conf.EnquireInterval == 0 {
		conf.EnquireInterval = -1
	}
	ft := newFakeTransport()
	s := NewSession(ft, conf)
	require.Equal(t, StateClosed, s.Status())
	require.NoError(t, s.Connect("localhost", 2775))
	require.Equal(t, StateOpen, s.Status())
	t.Cleanup(func() { _ = s.Close() })
	return s, ft
}

func boundSession(t *testing.T, conf SessionConf) (*Session, *fakeTransport) {
	t.Helper()
	s, ft := openSession(t, conf)
	done := make(chan *pdu.BindResp, 1)
	go func() {
		resp, err := s.Bind(context.Background(), pdu.Transceiver, "esme", "secret")
		assert.NoError(t, err)
		done <- resp
	}()
	req := ft.next(t)
	ft.deliver(t, pdu.NewResponse(*req.Head(), pdu.StatusOK))
	resp := <-done
	require.Equal(t, pdu.StatusOK, resp.Status)
	require.Equal(t, StateBound, s.Status())
	return s, ft
}

func TestBindTransceiver(t *testing.T) {
	s, ft := openSession(t, SessionConf{SystemType: "VMA", AddrTon: 1, AddrNpi: 1})

	done := make(chan *pdu.BindResp, 1)
	go func() {
		resp, err := s.Bind(context.Background(), pdu.Transceiver, "esme", "secret")
		assert.NoError(t, err)
		done <- resp
	}()

	req, ok := ft.next(t).(*pdu.Bind)
	require.True(t, ok)
	require.Equal(t, pdu.BindTransceiverID, req.CommandID)
	require.Equal(t, "esme", req.SystemID)
	require.Equal(t, "secret", req.Password)
	require.Equal(t, "VMA", req.SystemType)
	require.Equal(t, uint8(1), req.AddrTon)
	require.Equal(t, uint8(pdu.InterfaceVersion), req.InterfaceVersion)

	bresp := pdu.NewResponse(req.Header, pdu.StatusOK).(*pdu.BindResp)
	bresp.SystemID = "smsc"
	ft.deliver(t, bresp)

	resp := <-done
	require.Equal(t, pdu.StatusOK, resp.Status)
	require.Equal(t, "smsc", resp.SystemID)
	require.Equal(t, StateBound, s.Status())
	require.Equal(t, pdu.Transceiver, s.Mode())
	require.Zero(t, s.Pending())
}

func TestBindRejected(t *testing.T) {
	s, ft := openSession(t, SessionConf{})
	done := make(chan *pdu.BindResp, 1)
	go func() {
		resp, err := s.Bind(context.Background(), pdu.Transmitter, "esme", "wrong")
		assert.NoError(t, err)
		done <- resp
	}()
	req := ft.next(t)
	ft.deliver(t, pdu.NewResponse(*req.Head(), pdu.StatusInvPaswd))
	resp := <-done
	require.Equal(t, pdu.StatusInvPaswd, resp.Status)
	require.Equal(t, StateOpen, s.Status())
}

func TestBindContract(t *testing.T) {
	s, _ := openSession(t, SessionConf{})
	resp, err := s.Bind(context.Background(), pdu.Transceiver, "esme", "")
	require.Error(t, err)
	require.Nil(t, resp)

	closed := NewSession(newFakeTransport(), SessionConf{})
	resp, err = closed.Bind(context.Background(), pdu.Transceiver, "esme", "secret")
	require.ErrorIs(t, err, ErrNotConnected)
	require.Equal(t, pdu.StatusLocalNoConn, resp.Status)
}

func TestBindAnsweredByGenericNack(t *testing.T) {
	s, ft := openSession(t, SessionConf{})
	done := make(chan *pdu.BindResp, 1)
	go func() {
		resp, _ := s.Bind(context.Background(), pdu.Receiver, "esme", "secret")
		done <- resp
	}()
	ft.next(t)
	// some SMSCs answer a bind they cannot parse with sequence zero
	ft.deliver(t, &pdu.GenericNack{Header: pdu.Header{Status: pdu.StatusInvCmdLen}})

	resp := <-done
	require.Equal(t, pdu.BindReceiverRespID, resp.CommandID)
	require.Equal(t, pdu.StatusInvCmdLen, resp.Status)
	require.Equal(t, StateOpen, s.Status())
}

func TestSubmitNeedsBoundSession(t *testing.T) {
	sm := &pdu.SubmitSm{}
	sm.DestinationAddr = "989120000000"

	closed := NewSession(newFakeTransport(), SessionConf{})
	resp, err := closed.Submit(context.Background(), sm)
	require.ErrorIs(t, err, ErrNotConnected)
	require.Equal(t, pdu.StatusLocalNoConn, resp.Status)

	s, ft := openSession(t, SessionConf{})
	resp, err = s.Submit(context.Background(), sm)
	require.ErrorIs(t, err, ErrNotBound)
	require.Equal(t, pdu.StatusLocalUnbound, resp.Status)
	ft.quiet(t, 20*time.Millisecond)

	_, err = s.Submit(context.Background(), &pdu.SubmitSm{})
	require.Error(t, err)
}

func TestConcurrentSubmitsResolveOutOfOrder(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})

	type result struct {
		seq  uint32
		resp *pdu.SubmitSmResp
		err  error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			sm := &pdu.SubmitSm{}
			sm.DestinationAddr = fmt.Sprintf("98912000000%d", i)
			resp, err := s.Submit(context.Background(), sm)
			results <- result{sm.Sequence, resp, err}
		}(i)
	}

	a := ft.next(t)
	b := ft.next(t)
	require.NotEqual(t, a.Head().Sequence, b.Head().Sequence)
	for _, req := range []pdu.PDU{b, a} {
		r := pdu.NewResponse(*req.Head(), pdu.StatusOK).(*pdu.SubmitSmResp)
		r.MessageID = fmt.Sprintf("msg-%d", req.Head().Sequence)
		ft.deliver(t, r)
	}

	for i := 0; i < 2; i++ {
		res := <-results
		require.NoError(t, res.err)
		require.Equal(t, fmt.Sprintf("msg-%d", res.seq), res.resp.MessageID)
	}
	require.Zero(t, s.Pending())
	require.False(t, s.LastSubmitAt().IsZero())
}

func TestSubmitTimeout(t *testing.T) {
	s, ft := boundSession(t, SessionConf{WindowTimeout: 50 * time.Millisecond})

	sm := &pdu.SubmitSm{}
	sm.DestinationAddr = "989120000000"
	resp, err := s.Submit(context.Background(), sm)
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, pdu.StatusLocalTimeout, resp.Status)
	require.Equal(t, sm.Sequence, resp.Sequence)
	require.Zero(t, s.Pending())

	// the late response finds nobody waiting
	req := ft.next(t)
	ft.deliver(t, pdu.NewResponse(*req.Head(), pdu.StatusOK))
	require.Zero(t, s.Pending())
	require.Equal(t, StateBound, s.Status())
}

func TestSubmitContextCancelled(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ft.next(t)
		cancel()
	}()
	sm := &pdu.SubmitSm{}
	sm.DestinationAddr = "989120000000"
	_, err := s.Submit(ctx, sm)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, s.Pending())
}

func TestGenericNackForSubmit(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	done := make(chan *pdu.SubmitSmResp, 1)
	go func() {
		sm := &pdu.SubmitSm{}
		sm.DestinationAddr = "989120000000"
		resp, err := s.Submit(context.Background(), sm)
		assert.NoError(t, err)
		done <- resp
	}()
	req := ft.next(t)
	ft.deliver(t, &pdu.GenericNack{Header: pdu.Header{Status: pdu.StatusThrottled, Sequence: req.Head().Sequence}})
	resp := <-done
	require.Equal(t, pdu.SubmitSmRespID, resp.CommandID)
	require.Equal(t, pdu.StatusThrottled, resp.Status)
}

func TestUnexpectedResponseKind(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	done := make(chan error, 1)
	go func() {
		sm := &pdu.SubmitSm{}
		sm.DestinationAddr = "989120000000"
		resp, err := s.Submit(context.Background(), sm)
		assert.Equal(t, pdu.StatusLocalUnexpectedResp, resp.Status)
		done <- err
	}()
	req := ft.next(t)
	ft.deliver(t, &pdu.QuerySmResp{Header: pdu.Header{CommandID: pdu.QuerySmRespID, Sequence: req.Head().Sequence}})
	require.ErrorIs(t, <-done, ErrUnexpectedResponse)
}

func TestMalformedResponseResolvesWaiter(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	done := make(chan *pdu.QuerySmResp, 1)
	go func() {
		resp, _ := s.Query(context.Background(), &pdu.QuerySm{MessageID: "42"})
		done <- resp
	}()
	req := ft.next(t)
	// query_sm_resp whose message_id is never terminated
	raw := rawPDU(pdu.QuerySmRespID, req.Head().Sequence, []byte("4242"))
	ft.feed(raw)
	resp := <-done
	require.Equal(t, pdu.StatusLocalUnexpectedResp, resp.Status)
	require.Zero(t, s.Pending())
}

func TestDisconnectReleasesPending(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	type result struct {
		resp *pdu.SubmitSmResp
		err  error
	}
	done := make(chan result, 1)
	go func() {
		sm := &pdu.SubmitSm{}
		sm.DestinationAddr = "989120000000"
		resp, err := s.Submit(context.Background(), sm)
		done <- result{resp, err}
	}()
	ft.next(t)
	require.NoError(t, s.Disconnect())

	res := <-done
	require.ErrorIs(t, res.err, ErrClosed)
	require.Equal(t, pdu.StatusLocalDisconnected, res.resp.Status)
	require.Equal(t, StateClosed, s.Status())
	require.Zero(t, s.Pending())

	// a client session can connect again
	require.NoError(t, s.Connect("localhost", 2775))
	require.Equal(t, StateOpen, s.Status())
}

func TestCloseIsFinal(t *testing.T) {
	s, _ := openSession(t, SessionConf{})
	require.NoError(t, s.Close())
	require.Equal(t, StateClosed, s.Status())
	require.ErrorIs(t, s.Connect("localhost", 2775), ErrClosed)
}

func TestUnbind(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	done := make(chan *pdu.UnbindResp, 1)
	go func() {
		resp, err := s.Unbind(context.Background())
		assert.NoError(t, err)
		done <- resp
	}()
	req := ft.next(t)
	require.Equal(t, pdu.UnbindID, req.Head().CommandID)
	ft.deliver(t, pdu.NewResponse(*req.Head(), pdu.StatusOK))
	require.Equal(t, pdu.StatusOK, (<-done).Status)
	require.Equal(t, StateOpen, s.Status())
}

func TestInboundDeliver(t *testing.T) {
	var got *pdu.DeliverSm
	s, ft := boundSession(t, SessionConf{Handlers: Handlers{
		Deliver: DeliverFunc(func(_ *Session, req *pdu.DeliverSm) pdu.Status {
			got = req
			return pdu.StatusOK
		}),
	}})

	dsm := &pdu.DeliverSm{Header: pdu.Header{Sequence: 77}}
	dsm.SourceAddr = "989120000000"
	dsm.ShortMessage = pdu.UserData{Body: []byte("hello")}
	ft.deliver(t, dsm)

	resp := ft.next(t)
	require.Equal(t, pdu.DeliverSmRespID, resp.Head().CommandID)
	require.Equal(t, uint32(77), resp.Head().Sequence)
	require.Equal(t, pdu.StatusOK, resp.Head().Status)
	require.NotNil(t, got)
	require.Equal(t, []byte("hello"), got.ShortMessage.Body)
	require.False(t, s.LastPduAt().IsZero())
}

func TestInboundRequestWhileUnbound(t *testing.T) {
	called := false
	_, ft := openSession(t, SessionConf{Handlers: Handlers{
		Deliver: DeliverFunc(func(*Session, *pdu.DeliverSm) pdu.Status {
			called = true
			return pdu.StatusOK
		}),
	}})
	ft.deliver(t, &pdu.DeliverSm{Header: pdu.Header{Sequence: 3}})
	resp := ft.next(t)
	require.Equal(t, pdu.StatusInvBnd, resp.Head().Status)
	require.False(t, called)

	// enquire_link is valid in any open state
	ft.deliver(t, &pdu.EnquireLink{Header: pdu.Header{Sequence: 4}})
	resp = ft.next(t)
	require.Equal(t, pdu.EnquireLinkRespID, resp.Head().CommandID)
	require.Equal(t, pdu.StatusOK, resp.Head().Status)
}

func TestDefaultStatuses(t *testing.T) {
	_, ft := boundSession(t, SessionConf{})
	cases := []struct {
		req  pdu.PDU
		want pdu.Status
	}{
		{&pdu.SubmitSm{}, pdu.StatusSubmitFail},
		{&pdu.SubmitMulti{Destinations: []pdu.DestAddress{{Flag: pdu.DestFlagSME, Addr: "1"}}}, pdu.StatusSubmitFail},
		{&pdu.CancelSm{}, pdu.StatusCancelFail},
		{&pdu.QuerySm{MessageID: "1"}, pdu.StatusSysErr},
		{&pdu.DataSm{}, pdu.StatusOK},
		{&pdu.DeliverSm{}, pdu.StatusOK},
		{pdu.NewBind(pdu.Transceiver), pdu.StatusAlyBnd},
	}
	for i, c := range cases {
		c.req.Head().Sequence = uint32(100 + i)
		ft.deliver(t, c.req)
		resp := ft.next(t)
		require.Equal(t, c.want, resp.Head().Status, "%T", c.req)
		require.Equal(t, uint32(100+i), resp.Head().Sequence)
	}
}

func TestInboundBindBoundOnlyOnceAnswered(t *testing.T) {
	s, ft := openSession(t, SessionConf{SystemID: "smsc", Handlers: Handlers{
		Bind: BindFunc(func(*Session, *pdu.Bind) pdu.Status { return pdu.StatusOK }),
	}})

	ft.mu.Lock()
	ft.sendErr = errors.New("broken pipe")
	ft.mu.Unlock()
	bind := pdu.NewBind(pdu.Transmitter)
	bind.Sequence = 1
	ft.deliver(t, bind)
	require.Equal(t, StateOpen, s.Status())

	ft.mu.Lock()
	ft.sendErr = nil
	ft.mu.Unlock()
	bind.Sequence = 2
	ft.deliver(t, bind)
	resp := ft.next(t).(*pdu.BindResp)
	require.Equal(t, pdu.StatusOK, resp.Status)
	require.Equal(t, "smsc", resp.SystemID)
	require.Equal(t, StateBound, s.Status())
	require.Equal(t, pdu.Transmitter, s.Mode())
}

func TestInboundBindPipelinedWithSubmit(t *testing.T) {
	_, ft := openSession(t, SessionConf{Handlers: Handlers{
		Bind: BindFunc(func(*Session, *pdu.Bind) pdu.Status { return pdu.StatusOK }),
		Submit: SubmitFunc(func(*Session, *pdu.SubmitSm) (string, pdu.Status) {
			return "m1", pdu.StatusOK
		}),
	}})

	bind := pdu.NewBind(pdu.Transceiver)
	bind.Sequence = 1
	bb, err := pdu.Encode(bind)
	require.NoError(t, err)
	sb, err := pdu.Encode(&pdu.SubmitSm{Header: pdu.Header{Sequence: 2}})
	require.NoError(t, err)
	ft.feed(append(bb, sb...))

	require.Equal(t, pdu.StatusOK, ft.next(t).Head().Status)
	resp := ft.next(t).(*pdu.SubmitSmResp)
	require.Equal(t, pdu.StatusOK, resp.Status)
	require.Equal(t, "m1", resp.MessageID)
}

func TestHandlerPanicIsAnswered(t *testing.T) {
	s, ft := boundSession(t, SessionConf{Handlers: Handlers{
		Submit: SubmitFunc(func(*Session, *pdu.SubmitSm) (string, pdu.Status) {
			panic("boom")
		}),
	}})
	ft.deliver(t, &pdu.SubmitSm{Header: pdu.Header{Sequence: 9}})
	resp := ft.next(t)
	require.Equal(t, pdu.SubmitSmRespID, resp.Head().CommandID)
	require.Equal(t, pdu.StatusSysErr, resp.Head().Status)
	require.Equal(t, StateBound, s.Status())
}

func TestAlertNotification(t *testing.T) {
	alerts := make(chan *pdu.AlertNotification, 1)
	_, ft := boundSession(t, SessionConf{Handlers: Handlers{
		Alert: AlertFunc(func(_ *Session, req *pdu.AlertNotification) { alerts <- req }),
	}})
	ft.deliver(t, &pdu.AlertNotification{Header: pdu.Header{Sequence: 5}, SourceAddr: "98912"})
	require.Equal(t, "98912", (<-alerts).SourceAddr)
	ft.quiet(t, 20*time.Millisecond)
}

func rawPDU(id pdu.CommandID, seq uint32, body []byte) []byte {
	b := make([]byte, pdu.HeaderLength+len(body))
	binary.BigEndian.PutUint32(b[0:], uint32(len(b)))
	binary.BigEndian.PutUint32(b[4:], uint32(id))
	binary.BigEndian.PutUint32(b[12:], seq)
	copy(b[pdu.HeaderLength:], body)
	return b
}

func TestUnknownCommandGetsGenericNack(t *testing.T) {
	_, ft := openSession(t, SessionConf{})
	ft.feed(rawPDU(pdu.CommandID(0x00000999), 12, nil))
	resp := ft.next(t)
	require.Equal(t, pdu.GenericNackID, resp.Head().CommandID)
	require.Equal(t, pdu.StatusInvCmdID, resp.Head().Status)
	require.Equal(t, uint32(12), resp.Head().Sequence)
}

func TestMalformedRequestGetsErrorResponse(t *testing.T) {
	_, ft := boundSession(t, SessionConf{})
	// service_type is never terminated
	ft.feed(rawPDU(pdu.SubmitSmID, 21, []byte("abcd")))
	resp := ft.next(t)
	require.Equal(t, pdu.SubmitSmRespID, resp.Head().CommandID)
	require.Equal(t, pdu.StatusSysErr, resp.Head().Status)
	require.Equal(t, uint32(21), resp.Head().Sequence)
}

func TestFramingErrorKeepsReceiveLoop(t *testing.T) {
	s, ft := openSession(t, SessionConf{})
	bad := rawPDU(pdu.EnquireLinkID, 1, nil)
	binary.BigEndian.PutUint32(bad, 2)
	ft.feed(bad)
	ft.quiet(t, 20*time.Millisecond)

	ft.deliver(t, &pdu.EnquireLink{Header: pdu.Header{Sequence: 8}})
	resp := ft.next(t)
	require.Equal(t, uint32(8), resp.Head().Sequence)
	require.Equal(t, StateOpen, s.Status())
}

func TestKeepAliveDisconnectsSilentPeer(t *testing.T) {
	s, ft := openSession(t, SessionConf{
		EnquireInterval: 10 * time.Millisecond,
		IdleThreshold:   20 * time.Millisecond,
		WindowTimeout:   30 * time.Millisecond,
	})
	req := ft.next(t)
	require.Equal(t, pdu.EnquireLinkID, req.Head().CommandID)
	require.Eventually(t, func() bool { return s.Status() == StateClosed }, 2*time.Second, 5*time.Millisecond)
}

func TestKeepAliveAnswered(t *testing.T) {
	s, ft := openSession(t, SessionConf{
		EnquireInterval: 10 * time.Millisecond,
		IdleThreshold:   20 * time.Millisecond,
		WindowTimeout:   200 * time.Millisecond,
	})
	stop := make(chan struct{})
	probes := make(chan struct{}, 64)
	go func() {
		for {
			select {
			case <-stop:
				return
			case b := <-ft.sent:
				p, err := pdu.Decode(b)
				if err != nil {
					continue
				}
				probes <- struct{}{}
				ft.deliver(t, pdu.NewResponse(*p.Head(), pdu.StatusOK))
			}
		}
	}()
	defer close(stop)

	<-probes
	<-probes
	require.Equal(t, StateOpen, s.Status())
}

func TestObserverSetsExternalID(t *testing.T) {
	var mu sync.Mutex
	seen := map[Direction][]pdu.CommandID{}
	obs := ObserverFunc(func(dir Direction, p pdu.PDU, details []pdu.FieldDetail) string {
		mu.Lock()
		defer mu.Unlock()
		seen[dir] = append(seen[dir], p.Head().CommandID)
		if len(details) < 4 {
			return ""
		}
		return "ext-" + details[3].Value
	})
	var ext string
	_, ft := openSession(t, SessionConf{Observer: obs, Handlers: Handlers{
		EnquireLink: EnquireLinkFunc(func(_ *Session, req *pdu.EnquireLink) pdu.Status {
			ext = req.ExternalID
			return pdu.StatusOK
		}),
	}})
	ft.deliver(t, &pdu.EnquireLink{Header: pdu.Header{Sequence: 31}})
	ft.next(t)
	require.Equal(t, "ext-31", ext)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []pdu.CommandID{pdu.EnquireLinkID}, seen[Received])
	require.Equal(t, []pdu.CommandID{pdu.EnquireLinkRespID}, seen[Sent])
}

func TestSubmitBatchStopsAtFailure(t *testing.T) {
	s, ft := boundSession(t, SessionConf{})
	parts := make([]*pdu.SubmitSm, 3)
	for i := range parts {
		parts[i] = &pdu.SubmitSm{}
		parts[i].DestinationAddr = "989120000000"
	}
	go func() {
		req := ft.next(t)
		ft.deliver(t, pdu.NewResponse(*req.Head(), pdu.StatusOK))
		req = ft.next(t)
		ft.deliver(t, pdu.NewResponse(*req.Head(), pdu.StatusMsgQFul))
	}()
	resps, err := s.SubmitBatch(context.Background(), parts)
	require.ErrorIs(t, err, pdu.StatusMsgQFul)
	require.Len(t, resps, 2)
	ft.quiet(t, 20*time.Millisecond)
}

func TestSequenceWraps(t *testing.T) {
	s := NewSession(newFakeTransport(), SessionConf{})
	s.seq.Store(SequenceEnd - 1)
	require.Equal(t, uint32(SequenceEnd), s.nextSequence())
	require.Equal(t, uint32(SequenceStart), s.nextSequence())
}
