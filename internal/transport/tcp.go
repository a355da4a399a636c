package transport

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/corvidns/resolver/internal/dnserr"
)

// TCPTransport pools dialed TCP sockets per (protocol, server) — here always
// "tcp" as the protocol half, since a second transport instance is used for
// DoT in embedding applications — evicting any connection that errors on
// read or write (spec §4.D).
type TCPTransport struct {
	timeout time.Duration

	mu    sync.Mutex
	conns map[string]net.Conn
}

// NewTCPTransport returns a transport dialing fresh TCP connections as
// needed and caching one healthy connection per server for reuse.
func NewTCPTransport(timeout time.Duration) *TCPTransport {
	return &TCPTransport{timeout: timeout, conns: make(map[string]net.Conn)}
}

// Close closes every cached connection.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.conns {
		_ = c.Close()
	}
	t.conns = make(map[string]net.Conn)
	return nil
}

func (t *TCPTransport) dial(ctx context.Context, server string) (net.Conn, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", server)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "tcp dial %s failed", server)
	}
	return conn, nil
}

func (t *TCPTransport) cached(server string) net.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[server]
}

func (t *TCPTransport) cache(server string, c net.Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old := t.conns[server]; old != nil && old != c {
		_ = old.Close()
	}
	t.conns[server] = c
}

func (t *TCPTransport) evict(server string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c := t.conns[server]; c != nil {
		_ = c.Close()
		delete(t.conns, server)
	}
}

// writeFramed writes a 2-byte big-endian length prefix followed by msg (RFC
// 1035 §4.2.2).
func writeFramed(conn net.Conn, msg []byte) error {
	if len(msg) > 65535 {
		return dnserr.New(dnserr.KindPacketInvalid, "tcp message too large (%d bytes)", len(msg))
	}
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(msg)))
	if _, err := conn.Write(prefix[:]); err != nil {
		return err
	}
	_, err := conn.Write(msg)
	return err
}

// readFramed reads one length-prefixed DNS message from conn.
func readFramed(conn net.Conn) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(prefix[:]))
	if n == 0 {
		return nil, dnserr.New(dnserr.KindPacketInvalid, "tcp response length is zero")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Send writes req to server over a pooled TCP connection and returns the
// single framed response. The connection is evicted from the pool on any
// I/O error so the next call dials fresh.
func (t *TCPTransport) Send(ctx context.Context, server string, req []byte) ([]byte, error) {
	conn := t.cached(server)
	if conn == nil {
		dialCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()
		var err error
		conn, err = t.dial(dialCtx, server)
		if err != nil {
			return nil, err
		}
	}
	_ = conn.SetDeadline(time.Now().Add(t.timeout))

	if err := writeFramed(conn, req); err != nil {
		t.evict(server)
		return nil, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "tcp write to %s failed", server)
	}
	resp, err := readFramed(conn)
	if err != nil {
		t.evict(server)
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, dnserr.Wrap(dnserr.KindSocketTimeout, err, "tcp read from %s timed out", server)
		}
		return nil, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "tcp read from %s failed", server)
	}
	t.cache(server, conn)
	return resp, nil
}

// StreamSend opens a dedicated (unpooled) TCP connection for a multi-message
// exchange such as AXFR, sends req, and returns the connection for the
// caller to read framed messages from until it decides the stream is done.
// AXFR streams should not share the pooled connection since a slow or
// misbehaving server can hold it open far longer than an ordinary query.
func (t *TCPTransport) StreamSend(ctx context.Context, server string, req []byte) (net.Conn, error) {
	conn, err := t.dial(ctx, server)
	if err != nil {
		return nil, err
	}
	if d, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(d)
	}
	if err := writeFramed(conn, req); err != nil {
		_ = conn.Close()
		return nil, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "tcp write to %s failed", server)
	}
	return conn, nil
}

// ReadNext reads the next framed message off a stream connection opened by
// StreamSend.
func ReadNext(conn net.Conn) ([]byte, error) {
	return readFramed(conn)
}
