package wire

import (
	"encoding/base32"
	"strconv"
	"strings"

	"github.com/corvidns/resolver/internal/dnserr"
)

// encodeTypeBitmap renders the RFC 4034 §4.1.2 / RFC 5155 §3.2.1 windowed
// type bitmap shared by NSEC and NSEC3: types are grouped into 256-wide
// windows, each window emitted only if it has at least one bit set, trimmed
// to its highest set byte.
func encodeTypeBitmap(types []RecordType) []byte {
	windows := map[byte][32]byte{}
	for _, t := range types {
		win := byte(t >> 8)
		bit := byte(t)
		bm := windows[win]
		bm[bit/8] |= 1 << (7 - bit%8)
		windows[win] = bm
	}
	var winNums []byte
	for w := range windows {
		winNums = append(winNums, w)
	}
	for i := 1; i < len(winNums); i++ {
		for j := i; j > 0 && winNums[j-1] > winNums[j]; j-- {
			winNums[j-1], winNums[j] = winNums[j], winNums[j-1]
		}
	}
	var out []byte
	for _, w := range winNums {
		bm := windows[w]
		length := 32
		for length > 0 && bm[length-1] == 0 {
			length--
		}
		if length == 0 {
			continue
		}
		out = append(out, w, byte(length))
		out = append(out, bm[:length]...)
	}
	return out
}

// decodeTypeBitmap is the inverse of encodeTypeBitmap, bounds-checked
// against the declared rdata length.
func decodeTypeBitmap(b []byte) ([]RecordType, error) {
	var types []RecordType
	i := 0
	for i < len(b) {
		if i+2 > len(b) {
			return nil, dnserr.New(dnserr.KindRRInvalid, "truncated type bitmap window header")
		}
		win := b[i]
		length := int(b[i+1])
		i += 2
		if length == 0 || length > 32 || i+length > len(b) {
			return nil, dnserr.New(dnserr.KindRRInvalid, "invalid type bitmap window length %d", length)
		}
		for j := 0; j < length; j++ {
			byt := b[i+j]
			for bit := 0; bit < 8; bit++ {
				if byt&(1<<(7-bit)) != 0 {
					types = append(types, RecordType(uint16(win)<<8|uint16(j*8+bit)))
				}
			}
		}
		i += length
	}
	return types, nil
}

func typeBitmapToText(types []RecordType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " ")
}

// NSECData is the RDATA of an NSEC record (RFC 4034 §4).
type NSECData struct {
	NextDomain string
	Types      []RecordType
}

func (NSECData) rdataMarker() {}

type nsecCodec struct{}

func (nsecCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC text parsing is not supported")
}
func (nsecCodec) ToText(d RData) string {
	n := d.(NSECData)
	return n.NextDomain + ". " + typeBitmapToText(n.Types)
}
func (nsecCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC rdata overruns message")
	}
	next, nameEnd, err := DecodeName(msg, rdStart)
	if err != nil {
		return nil, err
	}
	if nameEnd > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC next-domain name overruns rdata")
	}
	types, err := decodeTypeBitmap(msg[nameEnd:end])
	if err != nil {
		return nil, err
	}
	return NSECData{NextDomain: NormalizeName(next), Types: types}, nil
}
func (nsecCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	n := d.(NSECData)
	if err := c.EncodeName(w, n.NextDomain, true); err != nil {
		return err
	}
	w.WriteBytes(encodeTypeBitmap(n.Types))
	return nil
}
func (nsecCodec) NoCompress() bool { return true }

// NSEC3Data is the RDATA of an NSEC3 record (RFC 5155 §3).
type NSEC3Data struct {
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
	NextHashed    []byte
	Types         []RecordType
}

func (NSEC3Data) rdataMarker() {}

type nsec3Codec struct{}

var base32Hex = base32.HexEncoding.WithPadding(base32.NoPadding)

func (nsec3Codec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3 text parsing is not supported")
}
func (nsec3Codec) ToText(d RData) string {
	n := d.(NSEC3Data)
	salt := "-"
	if len(n.Salt) > 0 {
		salt = hexEncode(n.Salt)
	}
	return strconv.Itoa(int(n.HashAlgorithm)) + " " + strconv.Itoa(int(n.Flags)) + " " +
		strconv.Itoa(int(n.Iterations)) + " " + salt + " " +
		strings.ToUpper(base32Hex.EncodeToString(n.NextHashed)) + " " + typeBitmapToText(n.Types)
}
func (nsec3Codec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	end := rdStart + rdLen
	if rdStart+5 > end || end > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3 rdata too short")
	}
	saltLen := int(msg[rdStart+4])
	off := rdStart + 5
	if off+saltLen > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3 salt length overruns rdata")
	}
	salt := append([]byte(nil), msg[off:off+saltLen]...)
	off += saltLen
	if off+1 > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3 missing hash length")
	}
	hashLen := int(msg[off])
	off++
	if off+hashLen > end {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NSEC3 hash length overruns rdata")
	}
	hashed := append([]byte(nil), msg[off:off+hashLen]...)
	off += hashLen
	types, err := decodeTypeBitmap(msg[off:end])
	if err != nil {
		return nil, err
	}
	return NSEC3Data{
		HashAlgorithm: msg[rdStart], Flags: msg[rdStart+1], Iterations: be16(msg, rdStart+2),
		Salt: salt, NextHashed: hashed, Types: types,
	}, nil
}
func (nsec3Codec) ToWire(d RData, w *Writer, c *Compressor) error {
	n := d.(NSEC3Data)
	w.WriteByte(n.HashAlgorithm)
	w.WriteByte(n.Flags)
	w.WriteUint16(n.Iterations)
	w.WriteByte(byte(len(n.Salt)))
	w.WriteBytes(n.Salt)
	w.WriteByte(byte(len(n.NextHashed)))
	w.WriteBytes(n.NextHashed)
	w.WriteBytes(encodeTypeBitmap(n.Types))
	return nil
}
func (nsec3Codec) NoCompress() bool { return false }

func init() {
	Register(TypeNSEC, nsecCodec{})
	Register(TypeNSEC3, nsec3Codec{})
}
