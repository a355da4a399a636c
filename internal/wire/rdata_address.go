package wire

import (
	"net"
	"strings"

	"github.com/corvidns/resolver/internal/dnserr"
)

// AData is the RDATA of an A record (RFC 1035 §3.4.1): a 4-byte IPv4 address.
type AData struct {
	Addr net.IP
}

func (AData) rdataMarker() {}

// AAAAData is the RDATA of an AAAA record (RFC 3596): a 16-byte IPv6 address.
type AAAAData struct {
	Addr net.IP
}

func (AAAAData) rdataMarker() {}

type aCodec struct{}

func (aCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 1 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "A record takes exactly one address token")
	}
	ip := net.ParseIP(tokens[0]).To4()
	if ip == nil {
		return nil, dnserr.New(dnserr.KindRRInvalid, "invalid IPv4 address %q", tokens[0])
	}
	return AData{Addr: ip}, nil
}
func (aCodec) ToText(d RData) string { return d.(AData).Addr.String() }
func (aCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen != 4 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "A record must be 4 bytes (RFC 1035 §3.4.1), got %d", rdLen)
	}
	b := make([]byte, 4)
	copy(b, msg[rdStart:rdStart+4])
	return AData{Addr: net.IP(b)}, nil
}
func (aCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	a := d.(AData)
	ip4 := a.Addr.To4()
	if ip4 == nil {
		return dnserr.New(dnserr.KindRRInvalid, "A record address is not IPv4: %v", a.Addr)
	}
	w.WriteBytes(ip4)
	return nil
}
func (aCodec) NoCompress() bool { return false }

type aaaaCodec struct{}

func (aaaaCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 1 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "AAAA record takes exactly one address token")
	}
	ip := net.ParseIP(tokens[0])
	if ip == nil || ip.To4() != nil {
		return nil, dnserr.New(dnserr.KindRRInvalid, "invalid IPv6 address %q", tokens[0])
	}
	return AAAAData{Addr: ip.To16()}, nil
}
func (aaaaCodec) ToText(d RData) string {
	return strings.ToLower(d.(AAAAData).Addr.String())
}
func (aaaaCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen != 16 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "AAAA record must be 16 bytes (RFC 3596), got %d", rdLen)
	}
	b := make([]byte, 16)
	copy(b, msg[rdStart:rdStart+16])
	return AAAAData{Addr: net.IP(b)}, nil
}
func (aaaaCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	a := d.(AAAAData)
	ip16 := a.Addr.To16()
	if ip16 == nil {
		return dnserr.New(dnserr.KindRRInvalid, "AAAA record address is invalid: %v", a.Addr)
	}
	w.WriteBytes(ip16)
	return nil
}
func (aaaaCodec) NoCompress() bool { return false }

func init() {
	Register(TypeA, aCodec{})
	Register(TypeAAAA, aaaaCodec{})
}
