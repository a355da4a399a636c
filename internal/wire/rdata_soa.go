package wire

import (
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// SOAData is the RDATA of a SOA record (RFC 1035 §3.3.13). Minimum is the
// negative-caching TTL per RFC 2308.
type SOAData struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (SOAData) rdataMarker() {}

type soaCodec struct{}

func parseUint32Token(tok string) (uint32, error) {
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid integer %q", tok)
	}
	return uint32(v), nil
}

func (soaCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 7 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SOA record takes 7 fields, got %d", len(tokens))
	}
	var s SOAData
	var err error
	s.MName = NormalizeName(tokens[0])
	s.RName = NormalizeName(tokens[1])
	if s.Serial, err = parseUint32Token(tokens[2]); err != nil {
		return nil, err
	}
	if s.Refresh, err = parseUint32Token(tokens[3]); err != nil {
		return nil, err
	}
	if s.Retry, err = parseUint32Token(tokens[4]); err != nil {
		return nil, err
	}
	if s.Expire, err = parseUint32Token(tokens[5]); err != nil {
		return nil, err
	}
	if s.Minimum, err = parseUint32Token(tokens[6]); err != nil {
		return nil, err
	}
	return s, nil
}

func (soaCodec) ToText(d RData) string {
	s := d.(SOAData)
	return s.MName + ". " + s.RName + ". " +
		strconv.FormatUint(uint64(s.Serial), 10) + " " +
		strconv.FormatUint(uint64(s.Refresh), 10) + " " +
		strconv.FormatUint(uint64(s.Retry), 10) + " " +
		strconv.FormatUint(uint64(s.Expire), 10) + " " +
		strconv.FormatUint(uint64(s.Minimum), 10)
}

func (soaCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	mname, off, err := DecodeName(msg, rdStart)
	if err != nil {
		return nil, err
	}
	rname, off2, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	off = off2
	if off+20 > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "unexpected EOF reading SOA fixed fields")
	}
	s := SOAData{
		MName:   NormalizeName(mname),
		RName:   NormalizeName(rname),
		Serial:  be32(msg, off),
		Refresh: be32(msg, off+4),
		Retry:   be32(msg, off+8),
		Expire:  be32(msg, off+12),
		Minimum: be32(msg, off+16),
	}
	if off+20-rdStart != rdLen {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SOA rdlength mismatch")
	}
	return s, nil
}

func (soaCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	s := d.(SOAData)
	if err := c.EncodeName(w, s.MName, false); err != nil {
		return err
	}
	if err := c.EncodeName(w, s.RName, false); err != nil {
		return err
	}
	w.WriteUint32(s.Serial)
	w.WriteUint32(s.Refresh)
	w.WriteUint32(s.Retry)
	w.WriteUint32(s.Expire)
	w.WriteUint32(s.Minimum)
	return nil
}

func (soaCodec) NoCompress() bool { return false }

func init() { Register(TypeSOA, soaCodec{}) }
