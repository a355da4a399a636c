package wire

// EDNS payload-size bounds (RFC 6891 and common deployment practice).
const (
	DefaultUDPPayloadSize = 512  // traditional DNS UDP limit (RFC 1035)
	EDNSDefaultUDPSize    = 1232 // safe EDNS size avoiding IP fragmentation
	EDNSMaxUDPSize        = 4096 // maximum practical EDNS UDP size
	EDNSMinUDPSize        = 512
)

// OPTView is the OPT pseudo-record's fields with CLASS/TTL reinterpreted per
// RFC 6891 §6.1.3, rather than left packed in the raw Record.
type OPTView struct {
	UDPPayloadSize uint16
	ExtendedRCode  uint8
	Version        uint8
	DNSSECOk       bool
	Options        []EDNSOption
}

func clampUint32ToUint8(v uint32) uint8 {
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewOPTRecord builds an OPT record advertising udpPayloadSize (clamped to
// EDNSMinUDPSize..65535), with no options and the DO bit set when dnssecOK
// is true. Callers needing a cookie add it with WithCookie before adding the
// record to a message.
func NewOPTRecord(udpPayloadSize int, dnssecOK bool) Record {
	sz := clampInt(udpPayloadSize, EDNSMinUDPSize, 65535)
	var ttl uint32
	if dnssecOK {
		ttl |= 1 << 15
	}
	return Record{
		Name:  "",
		Type:  TypeOPT,
		Class: RecordClass(sz),
		TTL:   ttl,
		RData: OPTData{},
	}
}

// ToOPTView reinterprets an OPT record's CLASS/TTL/RDATA into named fields.
func ToOPTView(r Record) OPTView {
	opt, _ := r.RData.(OPTData)
	return OPTView{
		UDPPayloadSize: uint16(r.Class),
		ExtendedRCode:  clampUint32ToUint8((r.TTL >> 24) & 0xFF),
		Version:        clampUint32ToUint8((r.TTL >> 16) & 0xFF),
		DNSSECOk:       (r.TTL>>15)&0x1 == 1,
		Options:        opt.Options,
	}
}

// ExtractOPT finds the OPT record in additionals, if any.
func ExtractOPT(additionals []Record) *Record {
	for i := range additionals {
		if additionals[i].Type == TypeOPT {
			return &additionals[i]
		}
	}
	return nil
}

// ClientMaxUDPSize reports the UDP payload size a request advertises via
// EDNS, or DefaultUDPPayloadSize if it carries no OPT record.
func ClientMaxUDPSize(req Packet) int {
	opt := ExtractOPT(req.Additionals)
	if opt == nil {
		return DefaultUDPPayloadSize
	}
	v := ToOPTView(*opt)
	if v.UDPPayloadSize < DefaultUDPPayloadSize {
		return DefaultUDPPayloadSize
	}
	return int(v.UDPPayloadSize)
}

// IsTruncated reports whether a raw wire response has the TC flag set.
func IsTruncated(responseBytes []byte) bool {
	if len(responseBytes) < 4 {
		return false
	}
	flags := be16(responseBytes, 2)
	return flags&TCFlag != 0
}

// WithCookie returns a copy of opt with a DNS Cookie option (RFC 7873/9018)
// set, replacing any existing cookie option.
func WithCookie(r Record, cookie []byte) Record {
	opt, _ := r.RData.(OPTData)
	opts := make([]EDNSOption, 0, len(opt.Options)+1)
	for _, o := range opt.Options {
		if o.Code != OptCodeCookie {
			opts = append(opts, o)
		}
	}
	opts = append(opts, EDNSOption{Code: OptCodeCookie, Data: cookie})
	r.RData = OPTData{Options: opts}
	return r
}

// Cookie returns the DNS Cookie option data attached to an OPT record, if any.
func Cookie(r Record) ([]byte, bool) {
	opt, _ := r.RData.(OPTData)
	for _, o := range opt.Options {
		if o.Code == OptCodeCookie {
			return o.Data, true
		}
	}
	return nil, false
}
