package wire

import (
	"encoding/binary"

	"github.com/corvidns/resolver/internal/dnserr"
)

// HeaderSize is the fixed size of a DNS message header in bytes.
const HeaderSize = 12

// Header is the 12-byte DNS message header (RFC 1035 §4.1.1).
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// QR reports whether this header marks a response.
func (h Header) QR() bool { return h.Flags&QRFlag != 0 }

// Opcode extracts the 4-bit opcode from the flags field.
func (h Header) Opcode() Opcode { return Opcode((h.Flags & OpcodeMask) >> 11) }

// Rcode extracts the base RCODE (low 4 bits); combine with an OPT record's
// extended RCODE for the full 12-bit value when EDNS is in play.
func (h Header) Rcode() RCode { return RCodeFromFlags(h.Flags) }

func (h Header) encode(w *Writer) {
	w.WriteUint16(h.ID)
	w.WriteUint16(h.Flags)
	w.WriteUint16(h.QDCount)
	w.WriteUint16(h.ANCount)
	w.WriteUint16(h.NSCount)
	w.WriteUint16(h.ARCount)
}

func decodeHeader(msg []byte) (Header, error) {
	if len(msg) < HeaderSize {
		return Header{}, dnserr.New(dnserr.KindParseError, "message shorter than header (%d bytes)", len(msg))
	}
	return Header{
		ID:      binary.BigEndian.Uint16(msg[0:2]),
		Flags:   binary.BigEndian.Uint16(msg[2:4]),
		QDCount: binary.BigEndian.Uint16(msg[4:6]),
		ANCount: binary.BigEndian.Uint16(msg[6:8]),
		NSCount: binary.BigEndian.Uint16(msg[8:10]),
		ARCount: binary.BigEndian.Uint16(msg[10:12]),
	}, nil
}

// BuildFlags assembles a flags field from its components.
func BuildFlags(qr bool, op Opcode, aa, tc, rd, ra, ad, cd bool, rcode RCode) uint16 {
	var f uint16
	if qr {
		f |= QRFlag
	}
	f |= (uint16(op) << 11) & OpcodeMask
	if aa {
		f |= AAFlag
	}
	if tc {
		f |= TCFlag
	}
	if rd {
		f |= RDFlag
	}
	if ra {
		f |= RAFlag
	}
	if ad {
		f |= ADFlag
	}
	if cd {
		f |= CDFlag
	}
	f = (f &^ RCodeMask) | (uint16(rcode) & RCodeMask)
	return f
}
