package wire

import (
	"net"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// WKSData is the RDATA of a WKS record (RFC 1035 §3.4.2): a bitmap of the
// well-known services a host offers on a given protocol. Largely obsolete
// but still an assigned type the registry must round-trip.
type WKSData struct {
	Addr     net.IP
	Protocol uint8
	Bitmap   []byte
}

func (WKSData) rdataMarker() {}

type wksCodec struct{}

func (wksCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "WKS text parsing is not supported")
}
func (wksCodec) ToText(d RData) string {
	w := d.(WKSData)
	return w.Addr.String() + " " + strconv.Itoa(int(w.Protocol)) + " " + hexEncode(w.Bitmap)
}
func (wksCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen < 5 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "WKS rdata too short")
	}
	addr := make(net.IP, 4)
	copy(addr, msg[rdStart:rdStart+4])
	bitmap := make([]byte, rdLen-5)
	copy(bitmap, msg[rdStart+5:rdStart+rdLen])
	return WKSData{Addr: addr, Protocol: msg[rdStart+4], Bitmap: bitmap}, nil
}
func (wksCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	k := d.(WKSData)
	ip4 := k.Addr.To4()
	if ip4 == nil {
		return dnserr.New(dnserr.KindRRInvalid, "WKS address is not IPv4: %v", k.Addr)
	}
	w.WriteBytes(ip4)
	w.WriteByte(k.Protocol)
	w.WriteBytes(k.Bitmap)
	return nil
}
func (wksCodec) NoCompress() bool { return false }

func init() { Register(TypeWKS, wksCodec{}) }
