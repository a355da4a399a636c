package wire

import (
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// SRVData is the RDATA of an SRV record (RFC 2782).
type SRVData struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

func (SRVData) rdataMarker() {}

type srvCodec struct{}

func parseUint16Token(tok string) (uint16, error) {
	v, err := strconv.ParseUint(tok, 10, 16)
	if err != nil {
		return 0, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid integer %q", tok)
	}
	return uint16(v), nil
}

func (srvCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 4 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SRV record takes priority/weight/port/target")
	}
	var s SRVData
	var err error
	if s.Priority, err = parseUint16Token(tokens[0]); err != nil {
		return nil, err
	}
	if s.Weight, err = parseUint16Token(tokens[1]); err != nil {
		return nil, err
	}
	if s.Port, err = parseUint16Token(tokens[2]); err != nil {
		return nil, err
	}
	s.Target = NormalizeName(tokens[3])
	return s, nil
}

func (srvCodec) ToText(d RData) string {
	s := d.(SRVData)
	return strconv.Itoa(int(s.Priority)) + " " + strconv.Itoa(int(s.Weight)) + " " +
		strconv.Itoa(int(s.Port)) + " " + s.Target + "."
}

func (srvCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdStart+6 > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading SRV fixed fields")
	}
	target, next, err := DecodeName(msg, rdStart+6)
	if err != nil {
		return nil, err
	}
	if next-rdStart != rdLen {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SRV rdlength mismatch")
	}
	return SRVData{
		Priority: be16(msg, rdStart),
		Weight:   be16(msg, rdStart+2),
		Port:     be16(msg, rdStart+4),
		Target:   NormalizeName(target),
	}, nil
}

func (srvCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	s := d.(SRVData)
	w.WriteUint16(s.Priority)
	w.WriteUint16(s.Weight)
	w.WriteUint16(s.Port)
	// SRV targets must not be compressed in strict implementations; many
	// resolvers tolerate it, but the safer choice per common practice is to
	// spell the target out in full.
	return c.EncodeName(w, s.Target, true)
}

func (srvCodec) NoCompress() bool { return true }

func init() { Register(TypeSRV, srvCodec{}) }
