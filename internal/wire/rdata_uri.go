package wire

import (
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// URIData is the RDATA of a URI record (RFC 7553).
type URIData struct {
	Priority uint16
	Weight   uint16
	Target   string
}

func (URIData) rdataMarker() {}

type uriCodec struct{}

func (uriCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 3 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "URI record takes priority, weight, target")
	}
	var u URIData
	var err error
	if u.Priority, err = parseUint16Token(tokens[0]); err != nil {
		return nil, err
	}
	if u.Weight, err = parseUint16Token(tokens[1]); err != nil {
		return nil, err
	}
	u.Target = tokens[2]
	return u, nil
}
func (uriCodec) ToText(d RData) string {
	u := d.(URIData)
	return strconv.Itoa(int(u.Priority)) + " " + strconv.Itoa(int(u.Weight)) + ` "` + u.Target + `"`
}
func (uriCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen < 4 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "URI rdata too short")
	}
	return URIData{
		Priority: be16(msg, rdStart),
		Weight:   be16(msg, rdStart+2),
		Target:   string(msg[rdStart+4 : rdStart+rdLen]),
	}, nil
}
func (uriCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	u := d.(URIData)
	w.WriteUint16(u.Priority)
	w.WriteUint16(u.Weight)
	w.WriteBytes([]byte(u.Target))
	return nil
}
func (uriCodec) NoCompress() bool { return false }

func init() { Register(TypeURI, uriCodec{}) }
