package wire

import (
	"encoding/binary"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// MXData is the RDATA of an MX record (RFC 1035 §3.3.9).
type MXData struct {
	Preference uint16
	Exchange   string
}

func (MXData) rdataMarker() {}

type mxCodec struct{}

func (mxCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 2 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "MX record takes preference and exchange tokens")
	}
	pref, err := strconv.ParseUint(tokens[0], 10, 16)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid MX preference %q", tokens[0])
	}
	return MXData{Preference: uint16(pref), Exchange: NormalizeName(tokens[1])}, nil
}
func (mxCodec) ToText(d RData) string {
	mx := d.(MXData)
	return strconv.Itoa(int(mx.Preference)) + " " + mx.Exchange + "."
}
func (mxCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdStart+2 > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading MX preference")
	}
	pref := binary.BigEndian.Uint16(msg[rdStart : rdStart+2])
	ex, next, err := DecodeName(msg, rdStart+2)
	if err != nil {
		return nil, err
	}
	if next-rdStart != rdLen {
		return nil, dnserr.New(dnserr.KindRRInvalid, "MX rdlength mismatch")
	}
	return MXData{Preference: pref, Exchange: NormalizeName(ex)}, nil
}
func (mxCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	mx := d.(MXData)
	w.WriteUint16(mx.Preference)
	return c.EncodeName(w, mx.Exchange, false)
}
func (mxCodec) NoCompress() bool { return false }

func init() { Register(TypeMX, mxCodec{}) }
