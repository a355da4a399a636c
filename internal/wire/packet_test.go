package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketMarshalParseRoundTrip(t *testing.T) {
	p := Packet{
		Header: Header{ID: 0xBEEF, Flags: BuildFlags(true, OpcodeQuery, false, false, true, true, false, false, RCodeNoError)},
		Questions: []Question{
			{Name: "example.com", Type: TypeA, Class: ClassIN},
		},
		Answers: []Record{
			{Name: "example.com", Type: TypeA, Class: ClassIN, TTL: 300, RData: AData{Addr: net.ParseIP("93.184.216.34")}},
		},
	}

	raw, err := p.Marshal()
	require.NoError(t, err)

	parsed, err := ParsePacket(raw)
	require.NoError(t, err)
	assert.Equal(t, p.Header.ID, parsed.Header.ID)
	require.Len(t, parsed.Questions, 1)
	assert.Equal(t, "example.com", parsed.Questions[0].Name)
	require.Len(t, parsed.Answers, 1)
	a, ok := parsed.Answers[0].RData.(AData)
	require.True(t, ok)
	assert.Equal(t, "93.184.216.34", a.Addr.String())
}

func TestParsePacketRejectsOversizedMessage(t *testing.T) {
	msg := make([]byte, MaxIncomingMessageSize+1)
	_, err := ParsePacket(msg)
	assert.Error(t, err)
}

func TestParsePacketRejectsExcessiveQDCount(t *testing.T) {
	msg := make([]byte, HeaderSize)
	msg[4] = 0xFF
	msg[5] = 0xFF // QDCount = 65535
	_, err := ParsePacket(msg)
	assert.Error(t, err)
}

func TestParsePacketRejectsExcessiveSectionCount(t *testing.T) {
	msg := make([]byte, HeaderSize)
	msg[6] = 0xFF
	msg[7] = 0xFF // ANCount = 65535
	_, err := ParsePacket(msg)
	assert.Error(t, err)
}

func TestBuildErrorResponse(t *testing.T) {
	q := Question{Name: "example.com", Type: TypeA, Class: ClassIN}
	p := BuildErrorResponse(42, q, RCodeServFail)
	assert.Equal(t, uint16(42), p.Header.ID)
	assert.True(t, p.Header.QR())
	assert.Equal(t, RCodeServFail, p.Header.Rcode())
	require.Len(t, p.Questions, 1)
	assert.Equal(t, q, p.Questions[0])
}

func TestUnregisteredTypeRoundTripsAsOpaque(t *testing.T) {
	p := Packet{
		Header:    Header{ID: 1, Flags: BuildFlags(true, OpcodeQuery, false, false, false, false, false, false, RCodeNoError)},
		Questions: []Question{{Name: "example.com", Type: 65280, Class: ClassIN}},
		Answers: []Record{
			{Name: "example.com", Type: 65280, Class: ClassIN, TTL: 60, RData: OpaqueRData{Raw: []byte{1, 2, 3, 4}}},
		},
	}
	raw, err := p.Marshal()
	require.NoError(t, err)
	parsed, err := ParsePacket(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Answers, 1)
	o, ok := parsed.Answers[0].RData.(OpaqueRData)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, o.Raw)
}
