package transport

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidns/resolver/internal/wire"
)

func soaRecord(zone string, serial uint32) wire.Record {
	return wire.Record{
		Name: zone, Type: wire.TypeSOA, Class: wire.ClassIN, TTL: 3600,
		RData: wire.SOAData{MName: "ns1." + zone, RName: "hostmaster." + zone, Serial: serial, Minimum: 60},
	}
}

func aRecord(name string) wire.Record {
	return wire.Record{
		Name: name, Type: wire.TypeA, Class: wire.ClassIN, TTL: 300,
		RData: wire.AData{Addr: net.ParseIP("192.0.2.1")},
	}
}

func writeFramedMsg(t *testing.T, conn net.Conn, p wire.Packet) {
	t.Helper()
	raw, err := p.Marshal()
	require.NoError(t, err)
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(raw)))
	_, err = conn.Write(prefix[:])
	require.NoError(t, err)
	_, err = conn.Write(raw)
	require.NoError(t, err)
}

func axfrServer(t *testing.T, chunks []wire.Packet) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// drain the request
		var prefix [2]byte
		if _, err := conn.Read(prefix[:]); err != nil {
			return
		}
		n := binary.BigEndian.Uint16(prefix[:])
		buf := make([]byte, n)
		_, _ = conn.Read(buf)

		for _, p := range chunks {
			writeFramedMsg(t, conn, p)
		}
	}()
	return ln.Addr().String()
}

func TestAXFRConcatenatesChunksUntilSecondSOA(t *testing.T) {
	base := wire.Header{Flags: wire.BuildFlags(true, wire.OpcodeQuery, false, false, false, false, false, false, wire.RCodeNoError)}
	question := wire.Question{Name: "example.com", Type: wire.TypeAXFR, Class: wire.ClassIN}
	chunks := []wire.Packet{
		{Header: base, Questions: []wire.Question{question}, Answers: []wire.Record{soaRecord("example.com", 1), aRecord("a.example.com")}},
		{Header: base, Questions: []wire.Question{question}, Answers: []wire.Record{aRecord("b.example.com"), soaRecord("example.com", 1)}},
	}
	server := axfrServer(t, chunks)

	tr := NewTCPTransport(time.Second)
	defer tr.Close()

	zt, err := tr.AXFR(context.Background(), server, question)
	require.NoError(t, err)
	require.Len(t, zt.Records, 4)
	assert.Equal(t, wire.TypeSOA, zt.Records[0].Type)
	assert.Equal(t, wire.TypeSOA, zt.Records[3].Type)
}

func TestAXFRFailsOnNonzeroRcode(t *testing.T) {
	badHeader := wire.Header{Flags: wire.BuildFlags(true, wire.OpcodeQuery, false, false, false, false, false, false, wire.RCodeServFail)}
	question := wire.Question{Name: "example.com", Type: wire.TypeAXFR, Class: wire.ClassIN}
	chunks := []wire.Packet{
		{Header: badHeader, Questions: []wire.Question{question}},
	}
	server := axfrServer(t, chunks)

	tr := NewTCPTransport(time.Second)
	defer tr.Close()

	_, err := tr.AXFR(context.Background(), server, question)
	assert.Error(t, err)
}
