package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidns/resolver/internal/wire"
)

func rcodePacket(rcode wire.RCode) wire.Packet {
	return wire.Packet{Header: wire.Header{Flags: wire.BuildFlags(true, wire.OpcodeQuery, false, false, false, false, false, false, rcode)}}
}

func TestAnalyzeServfailUsesShortTTL(t *testing.T) {
	d := Analyze(rcodePacket(wire.RCodeServFail))
	assert.Equal(t, SERVFAIL, d.EntryType)
	assert.Equal(t, servfailTTL, d.TTLSeconds)
}

func TestAnalyzeNXDomainUsesSOAMinimum(t *testing.T) {
	p := rcodePacket(wire.RCodeNXDomain)
	p.Authorities = []wire.Record{
		{Name: "example.com", Type: wire.TypeSOA, Class: wire.ClassIN, TTL: 3600,
			RData: wire.SOAData{MName: "ns1.example.com", RName: "hostmaster.example.com", Minimum: 120}},
	}
	d := Analyze(p)
	assert.Equal(t, NXDOMAIN, d.EntryType)
	assert.Equal(t, 120, d.TTLSeconds)
}

func TestAnalyzeNXDomainFallsBackWithoutSOA(t *testing.T) {
	d := Analyze(rcodePacket(wire.RCodeNXDomain))
	assert.Equal(t, NXDOMAIN, d.EntryType)
	assert.Equal(t, defaultNegTTL, d.TTLSeconds)
}

func TestAnalyzeNoDataUsesSOAMinimum(t *testing.T) {
	p := rcodePacket(wire.RCodeNoError)
	p.Authorities = []wire.Record{
		{Name: "example.com", Type: wire.TypeSOA, Class: wire.ClassIN, TTL: 3600,
			RData: wire.SOAData{MName: "ns1.example.com", RName: "hostmaster.example.com", Minimum: 60}},
	}
	d := Analyze(p)
	assert.Equal(t, NODATA, d.EntryType)
	assert.Equal(t, 60, d.TTLSeconds)
}

func TestAnalyzePositiveUsesMinimumAnswerTTL(t *testing.T) {
	p := rcodePacket(wire.RCodeNoError)
	p.Answers = []wire.Record{
		{Name: "example.com", Type: wire.TypeA, Class: wire.ClassIN, TTL: 300},
		{Name: "example.com", Type: wire.TypeA, Class: wire.ClassIN, TTL: 60},
	}
	d := Analyze(p)
	assert.Equal(t, Positive, d.EntryType)
	assert.Equal(t, 60, d.TTLSeconds)
}
