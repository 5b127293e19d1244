package smpp

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/majiddarvishan/smppsession/pdu"
)

// acceptAll accepts connections and keeps them open until the test ends.
func acceptAll(t *testing.T) *net.TCPAddr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	return ln.Addr().(*net.TCPAddr)
}

func TestReconnectIsNotTornDownByPreviousReader(t *testing.T) {
	addr := acceptAll(t)
	tr := NewTCPTransport(time.Second)
	s := NewSession(tr, SessionConf{EnquireInterval: -1})
	defer s.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Connect("127.0.0.1", addr.Port), "round %d", i)
		time.Sleep(2 * time.Millisecond)
		require.Equal(t, StateOpen, s.Status(), "round %d", i)
		require.True(t, tr.IsAvailable(), "round %d", i)
		require.NoError(t, s.Disconnect())
		require.Equal(t, StateClosed, s.Status())
	}
}

func TestRequestAfterReconnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	peers := make(chan net.Conn, 2)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			peers <- c
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	tr := NewTCPTransport(time.Second)
	s := NewSession(tr, SessionConf{EnquireInterval: -1, WindowTimeout: 2 * time.Second})
	defer s.Close()

	require.NoError(t, s.Connect("127.0.0.1", port))
	first := <-peers
	defer first.Close()
	require.NoError(t, s.Disconnect())
	require.NoError(t, s.Connect("127.0.0.1", port))
	second := <-peers
	defer second.Close()

	// the peer answers enquire_link on the new connection only
	go func() {
		buf := make([]byte, 64)
		n, err := second.Read(buf)
		if err != nil {
			return
		}
		req, err := pdu.Decode(buf[:n])
		if err != nil {
			return
		}
		b, err := pdu.Encode(pdu.NewResponse(*req.Head(), pdu.StatusOK))
		if err != nil {
			return
		}
		_, _ = second.Write(b)
	}()
	resp, err := s.EnquireLink(context.Background())
	require.NoError(t, err)
	require.Equal(t, pdu.StatusOK, resp.Status)
	require.Equal(t, StateOpen, s.Status())
}
