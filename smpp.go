// Package smpp implements SMPP protocol v3.4.
//
// It allows easier creation of SMPP clients and servers by providing utilities for PDU and session handling.
// In order to do any kind of interaction you first need to create an SMPP Session. Session is the main carrier
// of the protocol and enforces its rules.
//
// Naked session can be created over any Transport:
//
//	sess := smpp.NewSession(smpp.NewTCPTransport(5*time.Second), conf)
//	err := sess.Connect("localhost", 2775)
//	resp, err := sess.Bind(ctx, pdu.Transceiver, "user", "secret")
//
// But it's much more convenient to use helpers that would do the binding with the remote SMSC and return you
// session prepared for sending:
//
//	sess, err := smpp.BindTRx(sessConf, bindConf)
//
// And once you have the session it can be used for sending PDUs to the bound peer.
//
//	src := smpp.Address{Addr: "11111111"}
//	dst := smpp.Address{Ton: 1, Npi: 1, Addr: "22222222"}
//	sm, err := sess.PrepareSubmit(smpp.ModeShortMessage, src, dst, pdu.CodingDefault, "Hello from SMPP!")
//	resp, err := sess.Submit(ctx, sm)
//
// Requests block until the response arrives or the window timeout expires. Peer statuses are returned on the
// response; local failures come back as a response carrying a local status plus a non-nil error.
//
// Session that is no longer used must be closed:
//
//	sess.Close()
//
// Inbound requests are answered by the collaborators in SessionConf.Handlers:
//
//	conf := smpp.SessionConf{
//	    Handlers: smpp.Handlers{
//	        Deliver: smpp.DeliverFunc(func(s *smpp.Session, req *pdu.DeliverSm) pdu.Status {
//	            return pdu.StatusOK
//	        }),
//	    },
//	}
package smpp

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/majiddarvishan/smppsession/pdu"
	"github.com/majiddarvishan/smppsession/utility"
)

const (
	// Version of the supported SMPP Protocol. Only supporting 3.4 for now.
	Version = 0x34
	// SequenceStart is the starting reference for sequence number.
	SequenceStart = 0x00000001
	// SequenceEnd s sequence number upper boundary.
	SequenceEnd = 0x7FFFFFFF
)

// DefaultWindowTimeout bounds the wait for a response.
const DefaultWindowTimeout = 30 * time.Second

// SessionConf configures a Session. Zero values select the defaults.
type SessionConf struct {
	// WindowTimeout is how long a request waits for its response.
	WindowTimeout time.Duration
	// EnquireInterval is how often the link is checked for idleness.
	// A negative value disables keep-alive.
	EnquireInterval time.Duration
	// IdleThreshold is the silence after which enquire_link is sent.
	IdleThreshold time.Duration
	// ShortMessageMaxBytes is the nominal short message capacity used when
	// segmenting.
	ShortMessageMaxBytes int
	// SubmitRate limits submits per second. Zero means unlimited.
	SubmitRate float64

	// SystemID is returned in bind responses by server sessions.
	SystemID string
	// Optional bind fields sent by Bind.
	SystemType   string
	AddrTon      uint8
	AddrNpi      uint8
	AddressRange string

	Handlers    Handlers
	Observer    Observer
	Logger      *zerolog.Logger
	TextEncoder utility.TextEncoder
}

func (c SessionConf) withDefaults() SessionConf {
	if c.WindowTimeout <= 0 {
		c.WindowTimeout = DefaultWindowTimeout
	}
	if c.EnquireInterval == 0 {
		c.EnquireInterval = DefaultEnquireInterval
	}
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = DefaultIdleThreshold
	}
	if c.ShortMessageMaxBytes <= 0 {
		c.ShortMessageMaxBytes = utility.DefaultShortMessageMaxBytes
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.TextEncoder == nil {
		c.TextEncoder = utility.DefaultEncoder{}
	}
	return c
}

// BindConf is the configuration for binding to smpp servers.
type BindConf struct {
	// Bind will be attempted to this addr.
	Addr string
	// Mandatory fields for binding PDU.
	SystemID   string
	Password   string
	SystemType string
	AddrTon    int
	AddrNpi    int
	AddrRange  string
}

func bind(mode pdu.BindMode, sc SessionConf, bc BindConf) (*Session, error) {
	host, portStr, err := net.SplitHostPort(bc.Addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}
	sc.SystemType = bc.SystemType
	sc.AddrTon = uint8(bc.AddrTon)
	sc.AddrNpi = uint8(bc.AddrNpi)
	sc.AddressRange = bc.AddrRange

	timeout := sc.WindowTimeout
	if timeout == 0 {
		timeout = time.Second * 5
	}
	sess := NewSession(NewTCPTransport(timeout), sc)
	if err := sess.Connect(host, port); err != nil {
		return sess, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	resp, err := sess.Bind(ctx, mode, bc.SystemID, bc.Password)
	if err != nil {
		return sess, err
	}
	if resp.Status != pdu.StatusOK {
		return sess, resp.Status
	}
	return sess, nil
}

// BindTx binds transmitter session.
func BindTx(sc SessionConf, bc BindConf) (*Session, error) {
	return bind(pdu.Transmitter, sc, bc)
}

// BindRx binds receiver session.
func BindRx(sc SessionConf, bc BindConf) (*Session, error) {
	return bind(pdu.Receiver, sc, bc)
}

// BindTRx binds transreceiver session.
func BindTRx(sc SessionConf, bc BindConf) (*Session, error) {
	return bind(pdu.Transceiver, sc, bc)
}

// Unbind session will initiate session unbinding and close the session.
// First it will try to notify peer with unbind request.
// If there was any error during unbinding an error will be returned.
// Session will be closed even if there was an error during unbind.
func Unbind(ctx context.Context, sess *Session) error {
	defer func() {
		sess.Close()
	}()
	resp, err := sess.Unbind(ctx)
	if err != nil {
		return err
	}
	if resp.Status != pdu.StatusOK {
		return resp.Status
	}
	return nil
}

// IsLocalFailure reports whether err was produced locally rather than by the
// peer: a timeout, a missing connection or a closed session.
func IsLocalFailure(err error) bool {
	var ce *ConnectionError
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrClosed) || errors.As(err, &ce)
}
