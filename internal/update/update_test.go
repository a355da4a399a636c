package update

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidns/resolver/internal/wire"
)

func TestBuildAddARecord(t *testing.T) {
	b := New("example.com.").
		Add("host.example.com.", wire.TypeA, 300, wire.AData{Addr: net.ParseIP("192.0.2.1")})

	pkt := b.Build(0x1234)
	assert.Equal(t, uint16(0x1234), pkt.Header.ID)
	require.Len(t, pkt.Questions, 1)
	assert.Equal(t, wire.TypeSOA, pkt.Questions[0].Type)
	assert.Equal(t, "example.com", pkt.Questions[0].Name)
	require.Len(t, pkt.Authorities, 1)
	assert.Equal(t, wire.ClassIN, pkt.Authorities[0].Class)
	assert.Equal(t, uint32(300), pkt.Authorities[0].TTL)

	raw, err := pkt.Marshal()
	require.NoError(t, err)
	parsed, err := wire.ParsePacket(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Authorities, 1)
	a, ok := parsed.Authorities[0].RData.(wire.AData)
	require.True(t, ok)
	assert.Equal(t, "192.0.2.1", a.Addr.String())
}

func TestBuildDeleteRRset(t *testing.T) {
	b := New("example.com.").DeleteRRset("old.example.com.", wire.TypeA)
	pkt := b.Build(1)
	require.Len(t, pkt.Authorities, 1)
	assert.Equal(t, wire.ClassANY, pkt.Authorities[0].Class)
	assert.Equal(t, uint32(0), pkt.Authorities[0].TTL)
}

func TestBuildPrerequisites(t *testing.T) {
	b := New("example.com.").
		RequireNameNotInUse("newhost.example.com.").
		RequireRRsetExists("other.example.com.", wire.TypeA)
	pkt := b.Build(2)
	require.Len(t, pkt.Answers, 2)
	assert.Equal(t, wire.ClassNONE, pkt.Answers[0].Class)
	assert.Equal(t, wire.TypeANY, pkt.Answers[0].Type)
	assert.Equal(t, wire.ClassANY, pkt.Answers[1].Class)
	assert.Equal(t, wire.TypeA, pkt.Answers[1].Type)

	raw, err := pkt.Marshal()
	require.NoError(t, err)
	_, err = wire.ParsePacket(raw)
	require.NoError(t, err)
}
