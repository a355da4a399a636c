package transport

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// framedEchoTCPServer accepts one connection, reads length-prefixed
// messages, and replies with reply framed the same way.
func framedEchoTCPServer(t *testing.T, reply []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				for {
					var prefix [2]byte
					if _, err := io.ReadFull(c, prefix[:]); err != nil {
						return
					}
					n := binary.BigEndian.Uint16(prefix[:])
					buf := make([]byte, n)
					if _, err := io.ReadFull(c, buf); err != nil {
						return
					}
					var out [2]byte
					binary.BigEndian.PutUint16(out[:], uint16(len(reply)))
					if _, err := c.Write(out[:]); err != nil {
						return
					}
					if _, err := c.Write(reply); err != nil {
						return
					}
				}
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestTCPTransportSendReceivesFramedReply(t *testing.T) {
	server := framedEchoTCPServer(t, []byte("response-bytes"))
	tr := NewTCPTransport(time.Second)
	defer tr.Close()

	resp, err := tr.Send(context.Background(), server, []byte("query"))
	require.NoError(t, err)
	assert.Equal(t, []byte("response-bytes"), resp)
}

func TestTCPTransportReusesConnectionAcrossSends(t *testing.T) {
	server := framedEchoTCPServer(t, []byte("ok"))
	tr := NewTCPTransport(time.Second)
	defer tr.Close()

	_, err := tr.Send(context.Background(), server, []byte("q1"))
	require.NoError(t, err)
	first := tr.cached(server)
	require.NotNil(t, first)

	_, err = tr.Send(context.Background(), server, []byte("q2"))
	require.NoError(t, err)
	second := tr.cached(server)
	assert.Same(t, first, second, "a healthy connection should be reused, not redialed")
}

func TestTCPTransportEvictsConnectionOnWriteError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close() // immediately close so the next write fails
	}()

	tr := NewTCPTransport(200 * time.Millisecond)
	defer tr.Close()

	_, err = tr.Send(context.Background(), ln.Addr().String(), []byte("query"))
	assert.Error(t, err)
	assert.Nil(t, tr.cached(ln.Addr().String()))
}

func TestTCPTransportRejectsOversizedMessage(t *testing.T) {
	tr := NewTCPTransport(time.Second)
	defer tr.Close()

	big := make([]byte, 70000)
	err := writeFramed(&fakeConn{}, big)
	assert.Error(t, err)
}

type fakeConn struct{ net.Conn }
