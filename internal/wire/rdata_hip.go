package wire

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/corvidns/resolver/internal/dnserr"
)

// HIPData is the RDATA of a HIP record (RFC 8005): a Host Identity Tag and
// public key binding a stable cryptographic identifier to a name, plus an
// optional list of rendezvous servers that relay initial contact.
type HIPData struct {
	PKAlgorithm       uint8
	HIT               []byte
	PublicKey         []byte
	RendezvousServers []string
}

func (HIPData) rdataMarker() {}

type hipCodec struct{}

func (hipCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "HIP text parsing is not supported")
}
func (hipCodec) ToText(d RData) string {
	h := d.(HIPData)
	parts := []string{
		strconv.Itoa(int(h.PKAlgorithm)),
		hexEncode(h.HIT),
		base64.StdEncoding.EncodeToString(h.PublicKey),
	}
	parts = append(parts, h.RendezvousServers...)
	return strings.Join(parts, " ")
}
func (hipCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if rdStart+4 > end || end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "HIP rdata too short")
	}
	hitLen := int(msg[rdStart])
	pkAlgo := msg[rdStart+1]
	pkLen := int(be16(msg, rdStart+2))
	off := rdStart + 4
	if off+hitLen+pkLen > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "HIP HIT/public-key length overruns rdata")
	}
	hit := append([]byte(nil), msg[off:off+hitLen]...)
	off += hitLen
	pk := append([]byte(nil), msg[off:off+pkLen]...)
	off += pkLen

	var servers []string
	for off < end {
		name, next, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		if next > end {
			return nil, dnserr.New(dnserr.KindRRInvalid, "HIP rendezvous server name overruns rdata")
		}
		servers = append(servers, NormalizeName(name))
		off = next
	}
	return HIPData{PKAlgorithm: pkAlgo, HIT: hit, PublicKey: pk, RendezvousServers: servers}, nil
}
func (hipCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	h := d.(HIPData)
	if len(h.HIT) > 255 {
		return dnserr.New(dnserr.KindRRInvalid, "HIP HIT exceeds 255 bytes")
	}
	w.WriteByte(byte(len(h.HIT)))
	w.WriteByte(h.PKAlgorithm)
	w.WriteUint16(uint16(len(h.PublicKey)))
	w.WriteBytes(h.HIT)
	w.WriteBytes(h.PublicKey)
	for _, rvs := range h.RendezvousServers {
		if err := c.EncodeName(w, rvs, true); err != nil {
			return err
		}
	}
	return nil
}
func (hipCodec) NoCompress() bool { return true }

func init() { Register(TypeHIP, hipCodec{}) }
