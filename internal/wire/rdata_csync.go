package wire

import (
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// CSYNCData is the RDATA of a CSYNC record (RFC 7477): a signal a child
// zone publishes to tell its parent which record types to resync from it.
type CSYNCData struct {
	SOASerial uint32
	Flags     uint16
	Types     []RecordType
}

func (CSYNCData) rdataMarker() {}

type csyncCodec struct{}

func (csyncCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "CSYNC text parsing is not supported")
}
func (csyncCodec) ToText(d RData) string {
	c := d.(CSYNCData)
	return strconv.FormatUint(uint64(c.SOASerial), 10) + " " + strconv.Itoa(int(c.Flags)) + " " + typeBitmapToText(c.Types)
}
func (csyncCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if rdStart+6 > end || end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "CSYNC rdata too short")
	}
	types, err := decodeTypeBitmap(msg[rdStart+6 : end])
	if err != nil {
		return nil, err
	}
	return CSYNCData{SOASerial: be32(msg, rdStart), Flags: be16(msg, rdStart+4), Types: types}, nil
}
func (csyncCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	cs := d.(CSYNCData)
	w.WriteUint32(cs.SOASerial)
	w.WriteUint16(cs.Flags)
	w.WriteBytes(encodeTypeBitmap(cs.Types))
	return nil
}
func (csyncCodec) NoCompress() bool { return false }

func init() { Register(TypeCSYNC, csyncCodec{}) }
