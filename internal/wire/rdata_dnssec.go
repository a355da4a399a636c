package wire

import (
	"encoding/base64"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// SIGData is the RDATA shape shared by SIG and RRSIG (RFC 4034 §3, RFC 2535).
// The SignerName must never be compressed on the wire (RFC 4034 §3.1.7):
// compressing it would make the bytes the signature covers depend on what
// else happened to be in the message, which breaks verification on replay.
type SIGData struct {
	TypeCovered RecordType
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  uint32
	Inception   uint32
	KeyTag      uint16
	SignerName  string
	Signature   []byte
}

func (SIGData) rdataMarker() {}

type sigCodec struct{}

func (sigCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "SIG/RRSIG text parsing is not supported")
}
func (sigCodec) ToText(d RData) string {
	s := d.(SIGData)
	return s.TypeCovered.String() + " " + strconv.Itoa(int(s.Algorithm)) + " " +
		strconv.Itoa(int(s.Labels)) + " " + strconv.FormatUint(uint64(s.OrigTTL), 10) + " " +
		strconv.FormatUint(uint64(s.Expiration), 10) + " " + strconv.FormatUint(uint64(s.Inception), 10) + " " +
		strconv.Itoa(int(s.KeyTag)) + " " + s.SignerName + ". " + base64.StdEncoding.EncodeToString(s.Signature)
}
func (sigCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if rdStart+18 > end || end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SIG/RRSIG rdata too short")
	}
	s := SIGData{
		TypeCovered: RecordType(be16(msg, rdStart)),
		Algorithm:   msg[rdStart+2],
		Labels:      msg[rdStart+3],
		OrigTTL:     be32(msg, rdStart+4),
		Expiration:  be32(msg, rdStart+8),
		Inception:   be32(msg, rdStart+12),
		KeyTag:      be16(msg, rdStart+16),
	}
	signer, next, err := DecodeName(msg, rdStart+18)
	if err != nil {
		return nil, err
	}
	if next > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SIG/RRSIG signer name overruns rdata")
	}
	s.SignerName = NormalizeName(signer)
	sig := make([]byte, end-next)
	copy(sig, msg[next:end])
	s.Signature = sig
	return s, nil
}
func (sigCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	s := d.(SIGData)
	w.WriteUint16(uint16(s.TypeCovered))
	w.WriteByte(s.Algorithm)
	w.WriteByte(s.Labels)
	w.WriteUint32(s.OrigTTL)
	w.WriteUint32(s.Expiration)
	w.WriteUint32(s.Inception)
	w.WriteUint16(s.KeyTag)
	if err := c.EncodeName(w, s.SignerName, true); err != nil {
		return err
	}
	w.WriteBytes(s.Signature)
	return nil
}
func (sigCodec) NoCompress() bool { return true }

// DNSKEYData is the RDATA of a DNSKEY record (RFC 4034 §2).
type DNSKEYData struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

func (DNSKEYData) rdataMarker() {}

type dnskeyCodec struct{}

func (dnskeyCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 4 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "DNSKEY record takes flags, protocol, algorithm, key")
	}
	flags, err := parseUint16Token(tokens[0])
	if err != nil {
		return nil, err
	}
	proto, err := strconv.ParseUint(tokens[1], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid DNSKEY protocol %q", tokens[1])
	}
	alg, err := strconv.ParseUint(tokens[2], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid DNSKEY algorithm %q", tokens[2])
	}
	key, err := base64.StdEncoding.DecodeString(tokens[3])
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid DNSKEY public key base64")
	}
	return DNSKEYData{Flags: flags, Protocol: uint8(proto), Algorithm: uint8(alg), PublicKey: key}, nil
}
func (dnskeyCodec) ToText(d RData) string {
	k := d.(DNSKEYData)
	return strconv.Itoa(int(k.Flags)) + " " + strconv.Itoa(int(k.Protocol)) + " " +
		strconv.Itoa(int(k.Algorithm)) + " " + base64.StdEncoding.EncodeToString(k.PublicKey)
}
func (dnskeyCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen < 4 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "DNSKEY rdata too short")
	}
	key := make([]byte, rdLen-4)
	copy(key, msg[rdStart+4:rdStart+rdLen])
	return DNSKEYData{
		Flags: be16(msg, rdStart), Protocol: msg[rdStart+2], Algorithm: msg[rdStart+3], PublicKey: key,
	}, nil
}
func (dnskeyCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	k := d.(DNSKEYData)
	w.WriteUint16(k.Flags)
	w.WriteByte(k.Protocol)
	w.WriteByte(k.Algorithm)
	w.WriteBytes(k.PublicKey)
	return nil
}
func (dnskeyCodec) NoCompress() bool { return false }

// DSData is the RDATA of a DS record (RFC 4034 §5).
type DSData struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (DSData) rdataMarker() {}

type dsCodec struct{}

func (dsCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "DS text parsing is not supported")
}
func (dsCodec) ToText(d RData) string {
	ds := d.(DSData)
	return strconv.Itoa(int(ds.KeyTag)) + " " + strconv.Itoa(int(ds.Algorithm)) + " " +
		strconv.Itoa(int(ds.DigestType)) + " " + hexEncode(ds.Digest)
}
func (dsCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen < 4 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "DS rdata too short")
	}
	digest := make([]byte, rdLen-4)
	copy(digest, msg[rdStart+4:rdStart+rdLen])
	return DSData{KeyTag: be16(msg, rdStart), Algorithm: msg[rdStart+2], DigestType: msg[rdStart+3], Digest: digest}, nil
}
func (dsCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	ds := d.(DSData)
	w.WriteUint16(ds.KeyTag)
	w.WriteByte(ds.Algorithm)
	w.WriteByte(ds.DigestType)
	w.WriteBytes(ds.Digest)
	return nil
}
func (dsCodec) NoCompress() bool { return false }

// NSEC3PARAMData is the RDATA of an NSEC3PARAM record (RFC 5155 §4).
type NSEC3PARAMData struct {
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
}

func (NSEC3PARAMData) rdataMarker() {}

type nsec3paramCodec struct{}

func (nsec3paramCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3PARAM text parsing is not supported")
}
func (nsec3paramCodec) ToText(d RData) string {
	n := d.(NSEC3PARAMData)
	salt := "-"
	if len(n.Salt) > 0 {
		salt = hexEncode(n.Salt)
	}
	return strconv.Itoa(int(n.HashAlgorithm)) + " " + strconv.Itoa(int(n.Flags)) + " " +
		strconv.Itoa(int(n.Iterations)) + " " + salt
}
func (nsec3paramCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdStart+5 > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3PARAM rdata too short")
	}
	saltLen := int(msg[rdStart+4])
	if rdStart+5+saltLen > len(msg) || 5+saltLen != rdLen {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3PARAM salt length mismatch")
	}
	salt := make([]byte, saltLen)
	copy(salt, msg[rdStart+5:rdStart+5+saltLen])
	return NSEC3PARAMData{
		HashAlgorithm: msg[rdStart], Flags: msg[rdStart+1], Iterations: be16(msg, rdStart+2), Salt: salt,
	}, nil
}
func (nsec3paramCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	n := d.(NSEC3PARAMData)
	w.WriteByte(n.HashAlgorithm)
	w.WriteByte(n.Flags)
	w.WriteUint16(n.Iterations)
	w.WriteByte(byte(len(n.Salt)))
	w.WriteBytes(n.Salt)
	return nil
}
func (nsec3paramCodec) NoCompress() bool { return false }

func hexEncode(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0xF]
	}
	return string(out)
}

func init() {
	Register(TypeSIG, sigCodec{})
	Register(TypeRRSIG, sigCodec{})
	Register(TypeDNSKEY, dnskeyCodec{})
	Register(TypeCDNSKEY, dnskeyCodec{})
	Register(TypeDS, dsCodec{})
	Register(TypeCDS, dsCodec{})
	Register(TypeNSEC3PARAM, nsec3paramCodec{})
}
