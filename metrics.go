package smpp

import (
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/majiddarvishan/smppsession/pdu"
)

// maxInFlight bounds the request timestamps kept for latency; requests never
// answered would otherwise accumulate.
const maxInFlight = 4096

// MetricsObserver counts PDUs per direction and command and times the
// round trip of requests. Next, when set, is called afterwards and its
// return value is passed through.
type MetricsObserver struct {
	Registry metrics.Registry
	Next     Observer

	sent     metrics.Meter
	received metrics.Meter
	failures metrics.Counter
	latency  metrics.Timer

	mu       sync.Mutex
	inFlight map[uint32]time.Time
}

// NewMetricsObserver registers its metrics in r, or in a new registry when
// r is nil.
func NewMetricsObserver(r metrics.Registry, next Observer) *MetricsObserver {
	if r == nil {
		r = metrics.NewRegistry()
	}
	m := &MetricsObserver{
		Registry: r,
		Next:     next,
		sent:     metrics.NewMeter(),
		received: metrics.NewMeter(),
		failures: metrics.NewCounter(),
		latency:  metrics.NewTimer(),
		inFlight: make(map[uint32]time.Time),
	}
	_ = r.Register("smpp.pdu.sent", m.sent)
	_ = r.Register("smpp.pdu.received", m.received)
	_ = r.Register("smpp.response.failures", m.failures)
	_ = r.Register("smpp.response.latency", m.latency)
	return m
}

func (m *MetricsObserver) Observe(dir Direction, p pdu.PDU, details []pdu.FieldDetail) string {
	h := p.Head()
	metrics.GetOrRegisterCounter("smpp."+dir.String()+"."+h.CommandID.String(), m.Registry).Inc(1)

	if dir == Sent {
		m.sent.Mark(1)
		if !h.CommandID.IsResponse() {
			m.mu.Lock()
			if len(m.inFlight) >= maxInFlight {
				m.inFlight = make(map[uint32]time.Time)
			}
			m.inFlight[h.Sequence] = time.Now()
			m.mu.Unlock()
		}
	} else {
		m.received.Mark(1)
		if h.CommandID.IsResponse() {
			if h.Status != pdu.StatusOK {
				m.failures.Inc(1)
			}
			m.mu.Lock()
			start, ok := m.inFlight[h.Sequence]
			delete(m.inFlight, h.Sequence)
			m.mu.Unlock()
			if ok {
				m.latency.UpdateSince(start)
			}
		}
	}

	if m.Next != nil {
		return m.Next.Observe(dir, p, details)
	}
	return ""
}

// Sent returns the number of PDUs sent.
func (m *MetricsObserver) Sent() int64 { return m.sent.Count() }

// Received returns the number of PDUs received.
func (m *MetricsObserver) Received() int64 { return m.received.Count() }

// Failures returns the number of responses received with a non-zero status.
func (m *MetricsObserver) Failures() int64 { return m.failures.Count() }

// Latency returns the request round trip timer.
func (m *MetricsObserver) Latency() metrics.Timer { return m.latency }
