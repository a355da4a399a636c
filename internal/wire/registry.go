package wire

import "github.com/corvidns/resolver/internal/dnserr"

// RData is the decoded, type-specific payload of a resource record. Each
// concrete codec defines its own RData implementation; opaque records carry
// OpaqueRData for types the registry does not decode into fields.
type RData interface {
	// rdataMarker is unexported so RData can only be implemented within this
	// package -- the registry is the sole authority on what a valid RDATA
	// value looks like for a given type.
	rdataMarker()
}

// Codec is the four-operation contract every RR type implements (spec
// §4.B): textual zone-file round trip and wire round trip, both consulting
// the owning packet/writer for name compression where relevant.
type Codec interface {
	// FromText parses a zone-file rdata fragment, already tokenized on
	// whitespace (multi-line strings are expected to have been joined by
	// the caller beforehand).
	FromText(tokens []string) (RData, error)
	// ToText renders rdata in canonical zone-file form.
	ToText(d RData) string
	// FromWire decodes the rdLen RDATA bytes at msg[rdStart:]. The whole
	// message is passed so that compressed names (e.g. the MX exchange) can
	// be followed.
	FromWire(msg []byte, rdStart, rdLen int) (RData, error)
	// ToWire encodes rdata into w, consulting c for name compression.
	ToWire(d RData, w *Writer, c *Compressor) error
	// NoCompress reports whether names inside this RDATA must never be
	// compressed (RFC 4034 §3.1.7: signer names in SIG/RRSIG).
	NoCompress() bool
}

var registry = map[RecordType]Codec{}

// Register installs a codec for t. Called from each rdata_*.go's init(), so
// the registry is an ordinary map populated at package load -- never a
// process-wide autoloader (spec Design Notes, "Global class autoloader").
func Register(t RecordType, c Codec) {
	registry[t] = c
}

// Lookup returns the codec for t, or (nil, false) for any type the registry
// does not know how to decode into fields -- callers then fall back to the
// opaque codec rather than failing, per spec §3 ("Unknown TYPEs may be
// preserved as opaque RDATA").
func Lookup(t RecordType) (Codec, bool) {
	c, ok := registry[t]
	return c, ok
}

func mustCodec(t RecordType) (Codec, error) {
	if c, ok := registry[t]; ok {
		return c, nil
	}
	return nil, dnserr.New(dnserr.KindRRInvalid, "no codec registered for type %s", t)
}
