package wire

import "github.com/corvidns/resolver/internal/dnserr"

// Bounds on an incoming message, mirrored from the source's packet parser so
// a hostile or corrupt response can't make ParsePacket allocate or loop
// unboundedly. AXFR streams are parsed record-by-record outside of these
// section caps (see internal/transport/axfr.go).
const (
	MaxIncomingMessageSize = 65535
	MaxQuestions           = 4
	MaxRRPerSection        = 100
	MaxTotalRR             = 200
)

// Packet is a fully decoded DNS message: header plus its four sections.
type Packet struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal encodes the packet to wire format, building a fresh Compressor so
// names within this message (and only this message) may share suffixes.
func (p Packet) Marshal() ([]byte, error) {
	w := NewWriter(512)
	p.Header.QDCount = uint16(len(p.Questions))
	p.Header.ANCount = uint16(len(p.Answers))
	p.Header.NSCount = uint16(len(p.Authorities))
	p.Header.ARCount = uint16(len(p.Additionals))
	p.Header.encode(w)

	c := NewCompressor()
	for _, q := range p.Questions {
		if err := q.encode(w, c); err != nil {
			return nil, err
		}
	}
	for _, sec := range [][]Record{p.Answers, p.Authorities, p.Additionals} {
		for _, rr := range sec {
			if err := rr.EncodeTo(w, c); err != nil {
				return nil, err
			}
		}
	}
	return w.Bytes(), nil
}

// ParsePacket decodes a complete DNS message, enforcing the section-count
// bounds above so a message claiming an absurd QDCOUNT/ANCOUNT cannot make
// the parser over-allocate or spin reading past the buffer (spec invariant:
// "a parser must never read or allocate proportional to a count field
// without validating it against the bytes actually present").
func ParsePacket(msg []byte) (Packet, error) {
	if len(msg) > MaxIncomingMessageSize {
		return Packet{}, dnserr.New(dnserr.KindPacketInvalid, "message too large (%d bytes)", len(msg))
	}
	hdr, err := decodeHeader(msg)
	if err != nil {
		return Packet{}, err
	}
	if int(hdr.QDCount) > MaxQuestions {
		return Packet{}, dnserr.New(dnserr.KindPacketInvalid, "qdcount %d exceeds limit", hdr.QDCount)
	}
	for _, n := range []uint16{hdr.ANCount, hdr.NSCount, hdr.ARCount} {
		if int(n) > MaxRRPerSection {
			return Packet{}, dnserr.New(dnserr.KindPacketInvalid, "section count %d exceeds limit", n)
		}
	}
	if int(hdr.ANCount)+int(hdr.NSCount)+int(hdr.ARCount) > MaxTotalRR {
		return Packet{}, dnserr.New(dnserr.KindPacketInvalid, "total rr count exceeds limit")
	}

	off := HeaderSize
	p := Packet{Header: hdr}

	p.Questions = make([]Question, 0, hdr.QDCount)
	for i := 0; i < int(hdr.QDCount); i++ {
		var q Question
		q, off, err = decodeQuestion(msg, off)
		if err != nil {
			return Packet{}, err
		}
		p.Questions = append(p.Questions, q)
	}

	for _, pair := range []struct {
		count int
		dst   *[]Record
	}{
		{int(hdr.ANCount), &p.Answers},
		{int(hdr.NSCount), &p.Authorities},
		{int(hdr.ARCount), &p.Additionals},
	} {
		recs := make([]Record, 0, pair.count)
		for i := 0; i < pair.count; i++ {
			var rr Record
			rr, off, err = ParseRecord(msg, off)
			if err != nil {
				return Packet{}, err
			}
			recs = append(recs, rr)
		}
		*pair.dst = recs
	}

	return p, nil
}

// BuildErrorResponse constructs a minimal response packet to reqID/question
// carrying the given rcode, used when the transport or engine must
// synthesize a reply without a real upstream answer (e.g. all name servers
// exhausted).
func BuildErrorResponse(reqID uint16, q Question, rcode RCode) Packet {
	return Packet{
		Header: Header{
			ID:    reqID,
			Flags: BuildFlags(true, OpcodeQuery, false, false, true, false, false, false, rcode),
		},
		Questions: []Question{q},
	}
}
