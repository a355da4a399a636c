package wire

import "github.com/corvidns/resolver/internal/dnserr"

// HINFOData is the RDATA of a HINFO record (RFC 1035 §3.3.2): two
// character-strings, CPU and OS.
type HINFOData struct {
	CPU string
	OS  string
}

func (HINFOData) rdataMarker() {}

type hinfoCodec struct{}

func (hinfoCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 2 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "HINFO record takes CPU and OS tokens")
	}
	return HINFOData{CPU: tokens[0], OS: tokens[1]}, nil
}
func (hinfoCodec) ToText(d RData) string {
	h := d.(HINFOData)
	return `"` + h.CPU + `" "` + h.OS + `"`
}
func (hinfoCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading HINFO")
	}
	cpu, off, err := readCharString(msg, rdStart, end)
	if err != nil {
		return nil, err
	}
	os, off2, err := readCharString(msg, off, end)
	if err != nil {
		return nil, err
	}
	if off2 != end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "HINFO rdlength mismatch")
	}
	return HINFOData{CPU: cpu, OS: os}, nil
}
func (hinfoCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	h := d.(HINFOData)
	writeCharString(w, h.CPU)
	writeCharString(w, h.OS)
	return nil
}
func (hinfoCodec) NoCompress() bool { return false }

func readCharString(msg []byte, off, end int) (string, int, error) {
	if off >= end {
		return "", 0, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading character-string")
	}
	ln := int(msg[off])
	off++
	if off+ln > end {
		return "", 0, dnserr.New(dnserr.KindRRInvalid, "character-string overruns rdata")
	}
	return string(msg[off : off+ln]), off + ln, nil
}

func writeCharString(w *Writer, s string) {
	b := []byte(s)
	if len(b) > 255 {
		b = b[:255]
	}
	w.WriteByte(byte(len(b)))
	w.WriteBytes(b)
}

func init() { Register(TypeHINFO, hinfoCodec{}) }
