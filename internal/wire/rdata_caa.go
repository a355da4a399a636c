package wire

import (
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// CAAData is the RDATA of a CAA record (RFC 6844).
type CAAData struct {
	Flag  uint8
	Tag   string
	Value string
}

func (CAAData) rdataMarker() {}

type caaCodec struct{}

func (caaCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 3 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "CAA record takes flag, tag, value")
	}
	flag, err := strconv.ParseUint(tokens[0], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid CAA flag %q", tokens[0])
	}
	return CAAData{Flag: uint8(flag), Tag: tokens[1], Value: tokens[2]}, nil
}
func (caaCodec) ToText(d RData) string {
	c := d.(CAAData)
	return strconv.Itoa(int(c.Flag)) + " " + c.Tag + ` "` + c.Value + `"`
}
func (caaCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if rdStart+2 > end || end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading CAA flag/tag length")
	}
	flag := msg[rdStart]
	tagLen := int(msg[rdStart+1])
	off := rdStart + 2
	if off+tagLen > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "CAA tag overruns rdata")
	}
	tag := string(msg[off : off+tagLen])
	off += tagLen
	value := string(msg[off:end])
	return CAAData{Flag: flag, Tag: tag, Value: value}, nil
}
func (caaCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	ca := d.(CAAData)
	w.WriteByte(ca.Flag)
	tag := []byte(ca.Tag)
	w.WriteByte(byte(len(tag)))
	w.WriteBytes(tag)
	w.WriteBytes([]byte(ca.Value))
	return nil
}
func (caaCodec) NoCompress() bool { return false }

func init() { Register(TypeCAA, caaCodec{}) }
