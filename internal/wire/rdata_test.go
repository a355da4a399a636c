package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRDataWireRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		rtype RecordType
		data  RData
	}{
		{"A", TypeA, AData{Addr: net.ParseIP("192.0.2.1").To4()}},
		{"AAAA", TypeAAAA, AAAAData{Addr: net.ParseIP("2001:db8::1")}},
		{"CNAME", TypeCNAME, NameData{Target: "target.example.com"}},
		{"NS", TypeNS, NameData{Target: "ns1.example.com"}},
		{"PTR", TypePTR, NameData{Target: "host.example.com"}},
		{"MX", TypeMX, MXData{Preference: 10, Exchange: "mail.example.com"}},
		{"TXT single", TypeTXT, TXTData{Strings: []string{"hello world"}}},
		{"TXT multi", TypeTXT, TXTData{Strings: []string{"a", "b", "c"}}},
		{"SOA", TypeSOA, SOAData{MName: "ns1.example.com", RName: "hostmaster.example.com", Serial: 2024010100, Refresh: 3600, Retry: 600, Expire: 86400, Minimum: 300}},
		{"SRV", TypeSRV, SRVData{Priority: 10, Weight: 20, Port: 443, Target: "target.example.com"}},
		{"HINFO", TypeHINFO, HINFOData{CPU: "INTEL", OS: "LINUX"}},
		{"NAPTR", TypeNAPTR, NAPTRData{Order: 100, Preference: 10, Flags: "S", Services: "SIP+D2U", Regexp: "", Replacement: "_sip._udp.example.com"}},
		{"CAA", TypeCAA, CAAData{Flag: 0, Tag: "issue", Value: "letsencrypt.org"}},
		{"SSHFP", TypeSSHFP, SSHFPData{Algorithm: 1, FPType: 1, Fingerprint: []byte{0xde, 0xad, 0xbe, 0xef}}},
		{"TLSA", TypeTLSA, TLSAData{Usage: 3, Selector: 1, MatchingType: 1, Data: []byte{0x01, 0x02, 0x03}}},
		{"URI", TypeURI, URIData{Priority: 1, Weight: 1, Target: "https://example.com/"}},
		{"DS", TypeDS, DSData{KeyTag: 12345, Algorithm: 8, DigestType: 2, Digest: []byte{0xde, 0xad, 0xbe, 0xef}}},
		{"DNSKEY", TypeDNSKEY, DNSKEYData{Flags: 257, Protocol: 3, Algorithm: 8, PublicKey: []byte{0x01, 0x02, 0x03, 0x04}}},
		{"NSEC3PARAM", TypeNSEC3PARAM, NSEC3PARAMData{HashAlgorithm: 1, Flags: 0, Iterations: 10, Salt: []byte{0xAA, 0xBB}}},
		{"NSEC", TypeNSEC, NSECData{NextDomain: "next.example.com", Types: []RecordType{TypeA, TypeMX, TypeAAAA, TypeRRSIG, TypeNSEC}}},
		{"NSEC3", TypeNSEC3, NSEC3Data{HashAlgorithm: 1, Flags: 0, Iterations: 10, Salt: []byte{0xAA}, NextHashed: []byte{1, 2, 3, 4, 5}, Types: []RecordType{TypeA, TypeNSEC3}}},
		{"WKS", TypeWKS, WKSData{Addr: net.ParseIP("192.0.2.1").To4(), Protocol: 6, Bitmap: []byte{0x40, 0x01}}},
		{"NID", TypeNID, NIDData{Preference: 10, NodeID: 0x0014002400560089}},
		{"L32", TypeL32, L32Data{Preference: 10, Locator32: net.ParseIP("192.0.2.1").To4()}},
		{"L64", TypeL64, L64Data{Preference: 10, Locator64: 0x0001000200030004}},
		{"LP", TypeLP, LPData{Preference: 10, FQDN: "l64-subnet.example.com"}},
		{"HIP", TypeHIP, HIPData{PKAlgorithm: 2, HIT: []byte{0x20, 0x01, 0x01, 0x0}, PublicKey: []byte{0xAB, 0xCD}, RendezvousServers: []string{"rvs.example.com"}}},
		{"LOC", TypeLOC, LOCData{Version: 0, Size: 0x12, HorizPre: 0x13, VertPre: 0x13, Latitude: 2147483647, Longitude: 2147483647, Altitude: 100000}},
		{"CSYNC", TypeCSYNC, CSYNCData{SOASerial: 2024010100, Flags: 3, Types: []RecordType{TypeA, TypeNS, TypeAAAA}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(128)
			c := NewCompressor()
			codec, ok := Lookup(tt.rtype)
			require.True(t, ok, "no codec registered for %s", tt.name)

			require.NoError(t, codec.ToWire(tt.data, w, c))
			decoded, err := codec.FromWire(w.Bytes(), 0, w.Offset())
			require.NoError(t, err)
			assert.Equal(t, tt.data, decoded)
		})
	}
}

func TestRecordEncodeToPatchesRDLength(t *testing.T) {
	rec := Record{Name: "example.com", Type: TypeA, Class: ClassIN, TTL: 60, RData: AData{Addr: net.ParseIP("192.0.2.1").To4()}}
	w := NewWriter(64)
	c := NewCompressor()
	require.NoError(t, rec.EncodeTo(w, c))

	parsed, next, err := ParseRecord(w.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, w.Offset(), next)
	assert.Equal(t, rec.Name, parsed.Name)
	assert.Equal(t, rec.RData, parsed.RData)
}

func TestEmptyRDataRoundTripsAsZeroLength(t *testing.T) {
	rec := Record{Name: "example.com", Type: TypeA, Class: ClassANY, TTL: 0, RData: nil}
	w := NewWriter(64)
	c := NewCompressor()
	require.NoError(t, rec.EncodeTo(w, c))

	parsed, _, err := ParseRecord(w.Bytes(), 0)
	require.NoError(t, err)
	o, ok := parsed.RData.(OpaqueRData)
	require.True(t, ok)
	assert.Empty(t, o.Raw)
}

func TestSIGSignerNameNotCompressed(t *testing.T) {
	sig := SIGData{
		TypeCovered: TypeA,
		Algorithm:   8,
		Labels:      2,
		OrigTTL:     300,
		Expiration:  2000000000,
		Inception:   1900000000,
		KeyTag:      1234,
		SignerName:  "example.com",
		Signature:   []byte{1, 2, 3, 4},
	}
	w := NewWriter(128)
	c := NewCompressor()
	// Pre-seed the dictionary with the same suffix; if the codec
	// accidentally allowed compression, the signer name would be encoded as
	// a 2-byte pointer instead of being spelled out.
	require.NoError(t, c.EncodeName(w, "example.com.", false))
	before := w.Offset()

	codec, ok := Lookup(TypeSIG)
	require.True(t, ok)
	require.NoError(t, codec.ToWire(sig, w, c))
	// 18 fixed bytes + a 2-byte pointer + the signature is what a compressed
	// signer name would take; spelled out it must be longer than that.
	assert.Greater(t, w.Offset()-before, 18+2+len(sig.Signature), "signer name must be spelled out, not compressed")

	decoded, err := codec.FromWire(w.Bytes(), before, w.Offset()-before)
	require.NoError(t, err)
	got := decoded.(SIGData)
	assert.Equal(t, sig.SignerName, got.SignerName)
	assert.Equal(t, sig.Signature, got.Signature)
}
