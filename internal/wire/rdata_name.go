package wire

import "github.com/corvidns/resolver/internal/dnserr"

// NameData is the RDATA shape shared by every RR whose payload is a single
// domain name: CNAME, NS, PTR, DNAME, MB, MG, and MR (RFC 1035 §3.3,
// RFC 6672).
type NameData struct {
	Target string
}

func (NameData) rdataMarker() {}

// nameCodec implements the record types above identically; only the
// registry key differs (spec Design Notes: "fields should drive behavior,
// not a type-per-class hierarchy").
type nameCodec struct{}

func (nameCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 1 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "name record takes exactly one domain-name token")
	}
	return NameData{Target: NormalizeName(tokens[0])}, nil
}
func (nameCodec) ToText(d RData) string { return d.(NameData).Target + "." }
func (nameCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	name, next, err := DecodeName(msg, rdStart)
	if err != nil {
		return nil, err
	}
	if next-rdStart != rdLen {
		return nil, dnserr.New(dnserr.KindRRInvalid, "name record rdlength mismatch (RFC 1035 §3.3)")
	}
	return NameData{Target: NormalizeName(name)}, nil
}
func (nameCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	return c.EncodeName(w, d.(NameData).Target, false)
}
func (nameCodec) NoCompress() bool { return false }

func init() {
	c := nameCodec{}
	Register(TypeCNAME, c)
	Register(TypeNS, c)
	Register(TypePTR, c)
	Register(TypeDNAME, c)
	Register(TypeMB, c)
	Register(TypeMG, c)
	Register(TypeMR, c)
}
