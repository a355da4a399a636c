package wire

import (
	"encoding/hex"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// TLSAData is the RDATA of a TLSA record (RFC 6698).
type TLSAData struct {
	Usage        uint8
	Selector     uint8
	MatchingType uint8
	Data         []byte
}

func (TLSAData) rdataMarker() {}

type tlsaCodec struct{}

func (tlsaCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 4 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "TLSA record takes usage, selector, matching type, data")
	}
	usage, err := strconv.ParseUint(tokens[0], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid TLSA usage %q", tokens[0])
	}
	selector, err := strconv.ParseUint(tokens[1], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid TLSA selector %q", tokens[1])
	}
	matching, err := strconv.ParseUint(tokens[2], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid TLSA matching type %q", tokens[2])
	}
	data, err := hex.DecodeString(tokens[3])
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid TLSA certificate association data")
	}
	return TLSAData{Usage: uint8(usage), Selector: uint8(selector), MatchingType: uint8(matching), Data: data}, nil
}
func (tlsaCodec) ToText(d RData) string {
	t := d.(TLSAData)
	return strconv.Itoa(int(t.Usage)) + " " + strconv.Itoa(int(t.Selector)) + " " +
		strconv.Itoa(int(t.MatchingType)) + " " + hex.EncodeToString(t.Data)
}
func (tlsaCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen < 3 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "TLSA rdata too short")
	}
	data := make([]byte, rdLen-3)
	copy(data, msg[rdStart+3:rdStart+rdLen])
	return TLSAData{Usage: msg[rdStart], Selector: msg[rdStart+1], MatchingType: msg[rdStart+2], Data: data}, nil
}
func (tlsaCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	t := d.(TLSAData)
	w.WriteByte(t.Usage)
	w.WriteByte(t.Selector)
	w.WriteByte(t.MatchingType)
	w.WriteBytes(t.Data)
	return nil
}
func (tlsaCodec) NoCompress() bool { return false }

func init() { Register(TypeTLSA, tlsaCodec{}) }
