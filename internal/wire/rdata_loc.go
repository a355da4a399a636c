package wire

import (
	"fmt"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// LOCData is the RDATA of a LOC record (RFC 1876): geographic position and
// imprecision, encoded as fixed-point latitude/longitude around the equator
// and a base/exponent byte pair for size and precision fields.
type LOCData struct {
	Version   uint8
	Size      uint8 // base*10^exponent centimeters, RFC 1876 §3
	HorizPre  uint8
	VertPre   uint8
	Latitude  uint32 // RFC 1876 §2: 2^31 is the equator, units of 1000ths of an arcsecond
	Longitude uint32
	Altitude  uint32 // RFC 1876 §2: 2^31 is 0m, units of centimeters
}

func (LOCData) rdataMarker() {}

type locCodec struct{}

// locPrecision decodes a LOC "base*10^exponent" byte into centimeters.
func locPrecision(b uint8) uint64 {
	base := uint64(b >> 4)
	exp := uint64(b & 0x0f)
	v := base
	for i := uint64(0); i < exp; i++ {
		v *= 10
	}
	return v
}

func locDegrees(v uint32, positive, negative byte) string {
	const equator = int64(1) << 31
	signed := int64(v) - equator
	hemisphere := positive
	if signed < 0 {
		hemisphere = negative
		signed = -signed
	}
	totalMas := signed // thousandths of an arcsecond
	deg := totalMas / (3600 * 1000)
	rem := totalMas % (3600 * 1000)
	min := rem / (60 * 1000)
	rem = rem % (60 * 1000)
	sec := float64(rem) / 1000.0
	return fmt.Sprintf("%d %d %.3f %c", deg, min, sec, hemisphere)
}

func (locCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "LOC text parsing is not supported")
}
func (locCodec) ToText(d RData) string {
	l := d.(LOCData)
	altMeters := (float64(l.Altitude) - float64(int64(1)<<31)) / 100.0
	sizeMeters := float64(locPrecision(l.Size)) / 100.0
	horizMeters := float64(locPrecision(l.HorizPre)) / 100.0
	vertMeters := float64(locPrecision(l.VertPre)) / 100.0
	return locDegrees(l.Latitude, 'N', 'S') + " " + locDegrees(l.Longitude, 'E', 'W') + " " +
		strconv.FormatFloat(altMeters, 'f', 2, 64) + "m " +
		strconv.FormatFloat(sizeMeters, 'f', 2, 64) + "m " +
		strconv.FormatFloat(horizMeters, 'f', 2, 64) + "m " +
		strconv.FormatFloat(vertMeters, 'f', 2, 64) + "m"
}
func (locCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen != 16 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "LOC record must be 16 bytes")
	}
	return LOCData{
		Version: msg[rdStart], Size: msg[rdStart+1], HorizPre: msg[rdStart+2], VertPre: msg[rdStart+3],
		Latitude: be32(msg, rdStart+4), Longitude: be32(msg, rdStart+8), Altitude: be32(msg, rdStart+12),
	}, nil
}
func (locCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	l := d.(LOCData)
	w.WriteByte(l.Version)
	w.WriteByte(l.Size)
	w.WriteByte(l.HorizPre)
	w.WriteByte(l.VertPre)
	w.WriteUint32(l.Latitude)
	w.WriteUint32(l.Longitude)
	w.WriteUint32(l.Altitude)
	return nil
}
func (locCodec) NoCompress() bool { return false }

func init() { Register(TypeLOC, locCodec{}) }
