package smpp

import (
	"context"
	"sync"
	"time"

	"github.com/majiddarvishan/smppsession/pdu"
)

// Waiter is a pending request: the request header and a one-slot channel
// for its response.
type Waiter struct {
	req       pdu.Header
	handshake bool
	ch        chan pdu.PDU
}

var waiterPool = sync.Pool{
	New: func() interface{} {
		return &Waiter{ch: make(chan pdu.PDU, 1)}
	},
}

func acquireWaiter(req pdu.Header, handshake bool) *Waiter {
	w := waiterPool.Get().(*Waiter)
	w.req = req
	w.handshake = handshake
	return w
}

func releaseWaiter(w *Waiter) {
	select {
	case <-w.ch:
	default:
	}
	w.req = pdu.Header{}
	w.handshake = false
	waiterPool.Put(w)
}

// RequestCorrelator maps outbound sequence numbers to blocked callers.
// Every registered waiter is resolved exactly once: by its response, by its
// timeout, or by FailAll.
type RequestCorrelator struct {
	mu      sync.Mutex
	pending map[uint32]*Waiter
	closed  bool
}

// NewRequestCorrelator returns an empty correlator.
func NewRequestCorrelator() *RequestCorrelator {
	return &RequestCorrelator{pending: make(map[uint32]*Waiter)}
}

// Register adds a waiter for req. Handshake waiters (bind, unbind) are also
// resolved by a generic_nack carrying any sequence number.
func (c *RequestCorrelator) Register(req pdu.Header, handshake bool) (*Waiter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if _, ok := c.pending[req.Sequence]; ok {
		return nil, ErrDuplicateSequence
	}
	w := acquireWaiter(req, handshake)
	c.pending[req.Sequence] = w
	return w, nil
}

// Resolve hands resp to the waiter registered under its sequence number and
// reports whether one was found. A response of the wrong kind resolves the
// waiter with StatusLocalUnexpectedResp; a generic_nack resolves it with the
// nack's status.
func (c *RequestCorrelator) Resolve(resp pdu.PDU) bool {
	h := resp.Head()
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.pending[h.Sequence]
	if !ok {
		return false
	}
	delete(c.pending, h.Sequence)
	w.ch <- adapt(w.req, resp)
	return true
}

// ResolveHandshakes resolves every pending handshake waiter with nack and
// returns how many were resolved.
func (c *RequestCorrelator) ResolveHandshakes(nack pdu.PDU) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for seq, w := range c.pending {
		if !w.handshake {
			continue
		}
		delete(c.pending, seq)
		w.ch <- adapt(w.req, nack)
		n++
	}
	return n
}

// Fail resolves the waiter for seq with a synthesized response carrying st.
func (c *RequestCorrelator) Fail(seq uint32, st pdu.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.pending[seq]
	if !ok {
		return false
	}
	delete(c.pending, seq)
	w.ch <- pdu.NewResponse(w.req, st)
	return true
}

// FailAll resolves every pending waiter with a synthesized response carrying st.
func (c *RequestCorrelator) FailAll(st pdu.Status) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.pending)
	for seq, w := range c.pending {
		delete(c.pending, seq)
		w.ch <- pdu.NewResponse(w.req, st)
	}
	return n
}

// Close fails every pending waiter and refuses new registrations.
func (c *RequestCorrelator) Close() {
	c.FailAll(pdu.StatusLocalDisconnected)
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Pending returns the header of the request waiting under seq.
func (c *RequestCorrelator) Pending(seq uint32) (pdu.Header, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.pending[seq]
	if !ok {
		return pdu.Header{}, false
	}
	return w.req, true
}

// Cancel removes w from the table without resolving it and releases it.
func (c *RequestCorrelator) Cancel(w *Waiter) {
	c.mu.Lock()
	if cur, ok := c.pending[w.req.Sequence]; ok && cur == w {
		delete(c.pending, w.req.Sequence)
	}
	c.mu.Unlock()
	releaseWaiter(w)
}

// Wait blocks until w is resolved, timeout expires or ctx is done. On expiry
// the waiter leaves the table and a response carrying StatusLocalTimeout is
// returned. A response arriving later finds no waiter. w must not be used
// after Wait returns.
func (c *RequestCorrelator) Wait(ctx context.Context, w *Waiter, timeout time.Duration) pdu.PDU {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var resp pdu.PDU
	select {
	case resp = <-w.ch:
	case <-timer.C:
	case <-ctx.Done():
	}
	if resp == nil {
		c.mu.Lock()
		if cur, ok := c.pending[w.req.Sequence]; ok && cur == w {
			delete(c.pending, w.req.Sequence)
			resp = pdu.NewResponse(w.req, pdu.StatusLocalTimeout)
		}
		c.mu.Unlock()
		if resp == nil {
			// resolved while the timer fired
			resp = <-w.ch
		}
	}
	releaseWaiter(w)
	return resp
}

// Len returns the number of pending requests.
func (c *RequestCorrelator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// adapt returns resp as the answer to req. A generic_nack becomes a response
// of the expected kind carrying the nack status; any other mismatch becomes
// StatusLocalUnexpectedResp.
func adapt(req pdu.Header, resp pdu.PDU) pdu.PDU {
	h := resp.Head()
	switch h.CommandID {
	case req.CommandID.Response():
		return resp
	case pdu.GenericNackID:
		st := h.Status
		if st == pdu.StatusOK {
			st = pdu.StatusLocalGenericNack
		}
		out := pdu.NewResponse(req, st)
		*out.Options() = resp.Options().Clone()
		return out
	}
	return pdu.NewResponse(req, pdu.StatusLocalUnexpectedResp)
}
