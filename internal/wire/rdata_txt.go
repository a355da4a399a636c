package wire

import "github.com/corvidns/resolver/internal/dnserr"

// TXTData is the RDATA of a TXT record (RFC 1035 §3.3.14): one or more
// character-strings, each at most 255 bytes on the wire.
type TXTData struct {
	Strings []string
}

func (TXTData) rdataMarker() {}

type txtCodec struct{}

func (txtCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) == 0 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "TXT record requires at least one string")
	}
	return TXTData{Strings: append([]string(nil), tokens...)}, nil
}

func (txtCodec) ToText(d RData) string {
	t := d.(TXTData)
	out := ""
	for i, s := range t.Strings {
		if i > 0 {
			out += " "
		}
		out += `"` + s + `"`
	}
	return out
}

func (txtCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading TXT rdata")
	}
	var strs []string
	i := rdStart
	for i < end {
		ln := int(msg[i])
		i++
		if i+ln > end {
			return nil, dnserr.New(dnserr.KindRRInvalid, "TXT character-string overruns rdata")
		}
		strs = append(strs, string(msg[i:i+ln]))
		i += ln
	}
	return TXTData{Strings: strs}, nil
}

// ToWire splits each logical string into 255-byte character-strings on the
// wire, matching the chunking the teacher's marshalTXTString performs for
// any string longer than a single character-string can hold.
func (txtCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	t := d.(TXTData)
	for _, s := range t.Strings {
		b := []byte(s)
		if len(b) == 0 {
			w.WriteByte(0)
			continue
		}
		for off := 0; off < len(b); off += 255 {
			end := off + 255
			if end > len(b) {
				end = len(b)
			}
			chunk := b[off:end]
			w.WriteByte(byte(len(chunk)))
			w.WriteBytes(chunk)
		}
	}
	return nil
}

func (txtCodec) NoCompress() bool { return false }

func init() { Register(TypeTXT, txtCodec{}) }
