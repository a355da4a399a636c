package resolver

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidns/resolver/internal/dnserr"
	"github.com/corvidns/resolver/internal/wire"
)

func aAnswerFor(q wire.Question, ttl uint32) wire.Packet {
	return wire.Packet{
		Header:    wire.Header{Flags: wire.BuildFlags(true, wire.OpcodeQuery, false, false, true, true, false, false, wire.RCodeNoError)},
		Questions: []wire.Question{q},
		Answers: []wire.Record{
			{Name: q.Name, Type: wire.TypeA, Class: wire.ClassIN, TTL: ttl, RData: wire.AData{Addr: net.ParseIP("192.0.2.1")}},
		},
	}
}

// fakeUDPServer answers every query by running respond against the parsed
// request and sending the marshaled reply back, with the same transaction
// ID patched in.
func fakeUDPServer(t *testing.T, respond func(req wire.Packet) (wire.Packet, bool)) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, 65535)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			req, err := wire.ParsePacket(buf[:n])
			if err != nil {
				continue
			}
			resp, send := respond(req)
			if !send {
				continue
			}
			resp.Header.ID = req.Header.ID
			raw, err := resp.Marshal()
			if err != nil {
				continue
			}
			_, _ = conn.WriteToUDP(raw, addr)
		}
	}()
	return conn.LocalAddr().String()
}

func newTestEngine(t *testing.T, servers ...string) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Nameservers = servers
	opts.Timeout = 200 * time.Millisecond
	opts.TCPTimeout = 200 * time.Millisecond
	opts.MaxRetries = 1
	e := New(opts)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestResolveBasicARecord(t *testing.T) {
	q := wire.Question{Name: "example.com", Type: wire.TypeA, Class: wire.ClassIN}
	server := fakeUDPServer(t, func(req wire.Packet) (wire.Packet, bool) {
		return aAnswerFor(req.Questions[0], 300), true
	})

	e := newTestEngine(t, server)
	req := wire.Packet{Header: wire.Header{ID: 0x1234}, Questions: []wire.Question{q}}

	res, err := e.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), res.Response.Header.ID)
	require.Len(t, res.Response.Answers, 1)
	a, ok := res.Response.Answers[0].RData.(wire.AData)
	require.True(t, ok)
	assert.Equal(t, "192.0.2.1", a.Addr.String())
}

func TestResolveCacheHitAvoidsSecondNetworkCall(t *testing.T) {
	q := wire.Question{Name: "cached.example.com", Type: wire.TypeA, Class: wire.ClassIN}
	calls := 0
	server := fakeUDPServer(t, func(req wire.Packet) (wire.Packet, bool) {
		calls++
		return aAnswerFor(req.Questions[0], 300), true
	})

	e := newTestEngine(t, server)
	req := wire.Packet{Header: wire.Header{ID: 1}, Questions: []wire.Question{q}}

	_, err := e.Resolve(context.Background(), req)
	require.NoError(t, err)
	res2, err := e.Resolve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "cache", res2.Source)
	assert.Equal(t, 1, calls, "second query should be served from cache without hitting the network")
}

func TestResolveTruncatedUDPEscalatesToTCP(t *testing.T) {
	q := wire.Question{Name: "big.example.com", Type: wire.TypeA, Class: wire.ClassIN}

	udpHits := 0
	udpAddr := ""
	tcpAddr := ""

	// UDP server always replies with TC=1.
	udpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = udpConn.Close() })
	go func() {
		buf := make([]byte, 65535)
		for {
			n, addr, err := udpConn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			req, err := wire.ParsePacket(buf[:n])
			if err != nil {
				continue
			}
			udpHits++
			resp := aAnswerFor(req.Questions[0], 300)
			resp.Header.ID = req.Header.ID
			resp.Header.Flags |= wire.TCFlag
			raw, err := resp.Marshal()
			if err != nil {
				continue
			}
			_, _ = udpConn.WriteToUDP(raw, addr)
		}
	}()
	udpAddr = udpConn.LocalAddr().String()

	// TCP server on the SAME port as the UDP server (same host:port string),
	// so the engine's "retry same server over TCP" targets this listener.
	host, port, err := net.SplitHostPort(udpAddr)
	require.NoError(t, err)
	tcpLn, err := net.Listen("tcp", net.JoinHostPort(host, port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tcpLn.Close() })
	tcpAddr = tcpLn.Addr().String()
	assert.Equal(t, udpAddr, tcpAddr)

	go func() {
		for {
			conn, err := tcpLn.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				var prefix [2]byte
				if _, err := c.Read(prefix[:]); err != nil {
					return
				}
				n := binary.BigEndian.Uint16(prefix[:])
				buf := make([]byte, n)
				if _, err := c.Read(buf); err != nil {
					return
				}
				req, err := wire.ParsePacket(buf)
				if err != nil {
					return
				}
				resp := aAnswerFor(req.Questions[0], 300)
				resp.Header.ID = req.Header.ID
				raw, err := resp.Marshal()
				if err != nil {
					return
				}
				var out [2]byte
				binary.BigEndian.PutUint16(out[:], uint16(len(raw)))
				_, _ = c.Write(out[:])
				_, _ = c.Write(raw)
			}(conn)
		}
	}()

	e := newTestEngine(t, udpAddr)
	req := wire.Packet{Header: wire.Header{ID: 7}, Questions: []wire.Question{q}}

	res, err := e.Resolve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Response.Answers, 1)
	assert.GreaterOrEqual(t, udpHits, 1, "the UDP server should have been tried first")
}

func TestResolveAllServersFailed(t *testing.T) {
	c1, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	addr1 := c1.LocalAddr().String()
	c1.Close() // nobody listening -> connection refused / timeout

	c2, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	addr2 := c2.LocalAddr().String()
	c2.Close()

	e := newTestEngine(t, addr1, addr2)
	req := wire.Packet{Header: wire.Header{ID: 9}, Questions: []wire.Question{{Name: "example.com", Type: wire.TypeA, Class: wire.ClassIN}}}

	_, err = e.Resolve(context.Background(), req)
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	if ok {
		assert.NotEqual(t, dnserr.Kind(0), derr.Kind)
	}
}

func TestResolveRejectsEmptyQuestionSection(t *testing.T) {
	e := newTestEngine(t, "127.0.0.1:1")
	_, err := e.Resolve(context.Background(), wire.Packet{Header: wire.Header{ID: 1}})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, dnserr.KindPacketInvalid, derr.Kind)
}
