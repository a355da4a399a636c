package wire

import "github.com/corvidns/resolver/internal/dnserr"

// OPTData is the RDATA of an OPT pseudo-record (RFC 6891): zero or more
// EDNS options. The OPT record's CLASS and TTL fields are not ordinary
// CLASS/TTL at all -- see edns.go for the accessors that reinterpret them as
// UDP payload size, extended RCODE, version, and the DO flag.
type OPTData struct {
	Options []EDNSOption
}

func (OPTData) rdataMarker() {}

// EDNSOption is a single EDNS(0) option (RFC 6891 §6.1.2).
type EDNSOption struct {
	Code uint16
	Data []byte
}

const (
	// OptCodeCookie is the DNS Cookie option code (RFC 7873).
	OptCodeCookie uint16 = 10
	// OptCodePadding is the EDNS padding option code (RFC 7830).
	OptCodePadding uint16 = 12

	ednsOptionHeaderLen   = 4
	ednsMaxOptionDataSize = 65535
)

type optCodec struct{}

func (optCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "OPT has no zone-file text form")
}
func (optCodec) ToText(d RData) string { return "" }

func (optCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading OPT rdata")
	}
	var opts []EDNSOption
	i := rdStart
	for i < end {
		if end-i < ednsOptionHeaderLen {
			break
		}
		code := be16(msg, i)
		ln := int(be16(msg, i+2))
		i += ednsOptionHeaderLen
		if i+ln > end {
			return nil, dnserr.New(dnserr.KindRRInvalid, "EDNS option overruns rdata")
		}
		data := make([]byte, ln)
		copy(data, msg[i:i+ln])
		opts = append(opts, EDNSOption{Code: code, Data: data})
		i += ln
	}
	return OPTData{Options: opts}, nil
}

func (optCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	o := d.(OPTData)
	for _, opt := range o.Options {
		if len(opt.Data) > ednsMaxOptionDataSize {
			continue
		}
		w.WriteUint16(opt.Code)
		w.WriteUint16(uint16(len(opt.Data)))
		w.WriteBytes(opt.Data)
	}
	return nil
}

func (optCodec) NoCompress() bool { return false }

func init() { Register(TypeOPT, optCodec{}) }
