package smpp

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// TransportEvents receives what a Transport reads. OnReceive calls never
// overlap, also across reconnects: OnClose for a connection returns before
// Connect dials the next one. data is only valid during the call.
type TransportEvents interface {
	OnReceive(data []byte)
	OnClose(err error)
}

// Transport is the byte stream a Session runs on. Send must be safe for
// concurrent use.
type Transport interface {
	// Connect must not be called from an event callback.
	Connect(host string, port int) error
	Disconnect() error
	Send(b []byte) error
	IsAvailable() bool
	// Listen registers the receiver of incoming data. It is called once,
	// before Connect.
	Listen(events TransportEvents)
}

const readBufferSize = 4096

// TCPTransport is a Transport over a TCP connection.
type TCPTransport struct {
	// DialTimeout bounds Connect. Zero means no timeout.
	DialTimeout time.Duration
	// WriteTimeout bounds every Send. Zero means no timeout.
	WriteTimeout time.Duration

	mu        sync.Mutex
	writeMu   sync.Mutex
	conn      net.Conn
	readDone  chan struct{} // closed when the reader of conn has exited
	events    TransportEvents
	available *atomic.Bool
	closing   *atomic.Bool
}

// NewTCPTransport returns an unconnected TCPTransport.
func NewTCPTransport(dialTimeout time.Duration) *TCPTransport {
	return &TCPTransport{
		DialTimeout: dialTimeout,
		available:   atomic.NewBool(false),
		closing:     atomic.NewBool(false),
	}
}

// NewConnTransport wraps an established connection, typically one accepted
// by a listener. Reading starts with Listen.
func NewConnTransport(conn net.Conn) *TCPTransport {
	t := NewTCPTransport(0)
	t.conn = conn
	t.available.Store(true)
	return t
}

func (t *TCPTransport) Listen(events TransportEvents) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
	if t.conn != nil {
		t.startReader()
	}
}

// startReader runs the read loop of t.conn. t.mu must be held.
func (t *TCPTransport) startReader() {
	done := make(chan struct{})
	t.readDone = done
	go t.readLoop(t.conn, t.events, done)
}

func (t *TCPTransport) Connect(host string, port int) error {
	t.mu.Lock()
	if t.conn != nil && t.available.Load() {
		t.mu.Unlock()
		return errors.New("already connected")
	}
	prev := t.readDone
	t.mu.Unlock()
	// the previous reader must deliver its OnClose before a new
	// connection exists
	if prev != nil {
		<-prev
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), t.DialTimeout)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conn = conn
	t.closing.Store(false)
	t.available.Store(true)
	if t.events != nil {
		t.startReader()
	}
	return nil
}

func (t *TCPTransport) Disconnect() error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil || !t.available.Load() {
		return nil
	}
	t.closing.Store(true)
	t.available.Store(false)
	return conn.Close()
}

func (t *TCPTransport) Send(b []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil || !t.available.Load() {
		return ErrNotConnected
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if t.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(t.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := conn.Write(b)
	return err
}

func (t *TCPTransport) IsAvailable() bool {
	return t.available.Load()
}

// RemoteAddr returns the peer address, or an empty string when unconnected.
func (t *TCPTransport) RemoteAddr() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return ""
	}
	return t.conn.RemoteAddr().String()
}

func (t *TCPTransport) readLoop(conn net.Conn, events TransportEvents, done chan struct{}) {
	defer close(done)
	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			events.OnReceive(buf[:n])
		}
		if err != nil {
			_ = conn.Close()
			t.mu.Lock()
			current := t.conn == conn
			if current {
				t.available.Store(false)
			}
			t.mu.Unlock()
			if !current {
				return
			}
			if t.closing.Load() || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				err = nil
			}
			events.OnClose(err)
			return
		}
	}
}
