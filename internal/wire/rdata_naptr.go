package wire

import (
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// NAPTRData is the RDATA of a NAPTR record (RFC 3403).
type NAPTRData struct {
	Order       uint16
	Preference  uint16
	Flags       string
	Services    string
	Regexp      string
	Replacement string
}

func (NAPTRData) rdataMarker() {}

type naptrCodec struct{}

func (naptrCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 6 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NAPTR record takes 6 fields")
	}
	var n NAPTRData
	var err error
	if n.Order, err = parseUint16Token(tokens[0]); err != nil {
		return nil, err
	}
	if n.Preference, err = parseUint16Token(tokens[1]); err != nil {
		return nil, err
	}
	n.Flags, n.Services, n.Regexp = tokens[2], tokens[3], tokens[4]
	n.Replacement = NormalizeName(tokens[5])
	return n, nil
}

func (naptrCodec) ToText(d RData) string {
	n := d.(NAPTRData)
	return strconv.Itoa(int(n.Order)) + " " + strconv.Itoa(int(n.Preference)) + ` "` +
		n.Flags + `" "` + n.Services + `" "` + n.Regexp + `" ` + n.Replacement + "."
}

func (naptrCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if rdStart+4 > end || end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading NAPTR fixed fields")
	}
	off := rdStart + 4
	flags, off, err := readCharString(msg, off, end)
	if err != nil {
		return nil, err
	}
	services, off, err := readCharString(msg, off, end)
	if err != nil {
		return nil, err
	}
	regexp, off, err := readCharString(msg, off, end)
	if err != nil {
		return nil, err
	}
	repl, next, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	if next != end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NAPTR rdlength mismatch")
	}
	return NAPTRData{
		Order: be16(msg, rdStart), Preference: be16(msg, rdStart+2),
		Flags: flags, Services: services, Regexp: regexp,
		Replacement: NormalizeName(repl),
	}, nil
}

func (naptrCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	n := d.(NAPTRData)
	w.WriteUint16(n.Order)
	w.WriteUint16(n.Preference)
	writeCharString(w, n.Flags)
	writeCharString(w, n.Services)
	writeCharString(w, n.Regexp)
	return c.EncodeName(w, n.Replacement, true)
}

func (naptrCodec) NoCompress() bool { return true }

func init() { Register(TypeNAPTR, naptrCodec{}) }
