// Package transport implements the UDP and TCP send paths the resolver
// engine uses to talk to name servers, including connection pooling and
// length-prefixed TCP framing (RFC 1035 §4.2).
package transport

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/corvidns/resolver/internal/dnserr"
	"github.com/corvidns/resolver/internal/pool"
)

// UDPTransport pools dialed UDP sockets per upstream server (adapted from
// the teacher's ensurePool/udpPools), so repeat queries to the same
// nameserver amortize socket setup.
type UDPTransport struct {
	poolSize int
	timeout  time.Duration
	recvSize int

	mu    sync.Mutex
	pools map[string]chan *net.UDPConn

	bufs *pool.Pool[[]byte]
}

// NewUDPTransport returns a transport pooling up to poolSize connections per
// upstream, reading responses into a buffer of recvSize bytes. The receive
// buffers themselves come from a generic pool.Pool (adapted from the
// teacher's internal/pool), since they are anonymous, same-size byte slices
// rather than identity-bound state like the per-server connection pools.
func NewUDPTransport(poolSize int, timeout time.Duration, recvSize int) *UDPTransport {
	if poolSize <= 0 {
		poolSize = 1
	}
	if recvSize <= 0 {
		recvSize = 65535
	}
	return &UDPTransport{
		poolSize: poolSize,
		timeout:  timeout,
		recvSize: recvSize,
		pools:    make(map[string]chan *net.UDPConn),
		bufs:     pool.New(func() []byte { return make([]byte, recvSize) }),
	}
}

// Close closes every pooled connection across every upstream.
func (t *UDPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.pools {
		close(ch)
		for c := range ch {
			_ = c.Close()
		}
	}
	t.pools = make(map[string]chan *net.UDPConn)
	return nil
}

func (t *UDPTransport) ensurePool(server string) (chan *net.UDPConn, error) {
	t.mu.Lock()
	if ch, ok := t.pools[server]; ok {
		t.mu.Unlock()
		return ch, nil
	}
	ch := make(chan *net.UDPConn, t.poolSize)
	t.pools[server] = ch
	t.mu.Unlock()

	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindNSInvalidEntry, err, "invalid nameserver address %q", server)
	}
	for i := 0; i < t.poolSize; i++ {
		c, dialErr := net.DialUDP("udp", nil, addr)
		if dialErr != nil {
			break // a partially filled pool is fine; queries fall back to transient dials
		}
		ch <- c
	}
	return ch, nil
}

func (t *UDPTransport) acquire(ctx context.Context, pool chan *net.UDPConn, server string) (*net.UDPConn, bool, error) {
	select {
	case c := <-pool:
		return c, true, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	default:
		addr, err := net.ResolveUDPAddr("udp", server)
		if err != nil {
			return nil, false, dnserr.Wrap(dnserr.KindNSInvalidEntry, err, "invalid nameserver address %q", server)
		}
		c, err := net.DialUDP("udp", nil, addr)
		if err != nil {
			return nil, false, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "dial %s failed", server)
		}
		return c, false, nil
	}
}

func (t *UDPTransport) release(c *net.UDPConn, pool chan *net.UDPConn, fromPool, healthy bool) {
	if !healthy || !fromPool {
		_ = c.Close()
		return
	}
	select {
	case pool <- c:
	default:
		_ = c.Close()
	}
}

// Send writes req to server over UDP and returns the raw response bytes.
// server must be a host:port pair. A connection is borrowed from the pool
// (or dialed transiently if the pool is momentarily empty) and returned
// afterward unless it proved unhealthy.
func (t *UDPTransport) Send(ctx context.Context, server string, req []byte) ([]byte, error) {
	pool, err := t.ensurePool(server)
	if err != nil {
		return nil, err
	}

	c, fromPool, err := t.acquire(ctx, pool, server)
	if err != nil {
		return nil, err
	}
	healthy := true
	defer func() { t.release(c, pool, fromPool, healthy) }()

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.SetDeadline(deadline)

	if _, err := c.Write(req); err != nil {
		healthy = false
		return nil, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "write to %s failed", server)
	}

	buf := t.bufs.Get()
	defer t.bufs.Put(buf)
	n, err := c.Read(buf)
	if err != nil {
		healthy = false
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, dnserr.Wrap(dnserr.KindSocketTimeout, err, "read from %s timed out", server)
		}
		return nil, dnserr.Wrap(dnserr.KindNSSocketFailed, err, "read from %s failed", server)
	}
	out := make([]byte, n)
	copy(out, buf[:n])
	return out, nil
}
