package wire

import (
	"encoding/binary"
	"strings"

	"github.com/corvidns/resolver/internal/dnserr"
)

const (
	maxLabelLen        = 63
	maxNameLen         = 255
	maxCompressionHops = 128 // generous bound; real chains are a handful deep
)

// NormalizeName lowercases a name and strips a single trailing dot, for
// case-insensitive comparison per RFC 4343.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

func trimDot(s string) string {
	return strings.TrimSuffix(s, ".")
}

func splitLabels(name string) ([]string, error) {
	name = trimDot(name)
	if name == "" {
		return nil, nil
	}
	labels := strings.Split(name, ".")
	for _, l := range labels {
		if l == "" {
			return nil, dnserr.New(dnserr.KindParseError, "empty label in domain name %q", name)
		}
		if len(l) > maxLabelLen {
			return nil, dnserr.New(dnserr.KindParseError, "label too long (%d > %d): %q", len(l), maxLabelLen, l)
		}
	}
	return labels, nil
}

// Compressor accumulates the suffix -> offset dictionary used to compress
// names across a single outgoing message (RFC 1035 §4.1.4). A fresh
// Compressor must be used per message; reusing one across messages would
// point backward into a buffer that no longer exists.
type Compressor struct {
	// offsets maps a normalized dotted suffix ("www.example.com") to the
	// buffer offset at which that suffix was first written.
	offsets map[string]int
}

// NewCompressor returns an empty compression dictionary.
func NewCompressor() *Compressor {
	return &Compressor{offsets: make(map[string]int)}
}

// EncodeName appends the wire encoding of name to w, compressing against any
// suffix previously recorded in c. If noCompress is true (RFC 4034 §3.1.7:
// the signer's name in SIG/RRSIG/SIG(0)), the name is always written out in
// full and is not recorded for others to point at either — a forward
// reference back into a signed name would change the bytes the signature
// covers on replay.
func (c *Compressor) EncodeName(w *Writer, name string, noCompress bool) error {
	labels, err := splitLabels(name)
	if err != nil {
		return err
	}

	start := w.Offset()
	written := 0
	for i := 0; i < len(labels); i++ {
		suffix := strings.ToLower(strings.Join(labels[i:], "."))

		if !noCompress {
			if ptr, ok := c.offsets[suffix]; ok && ptr < start+written {
				binary.BigEndian.PutUint16(w.scratch2[:], uint16(0xC000|ptr))
				w.WriteBytes(w.scratch2[:])
				return checkLen(start, w.Offset())
			}
			// Only a backward pointer is legal; record this suffix's offset
			// now so a later name in the message can point at it.
			if off := start + written; off <= 0x3FFF {
				c.offsets[suffix] = off
			}
		}

		label := labels[i]
		w.WriteByte(byte(len(label)))
		w.WriteBytes([]byte(label))
		written += 1 + len(label)
	}
	w.WriteByte(0)
	return checkLen(start, w.Offset())
}

func checkLen(start, end int) error {
	if end-start > maxNameLen {
		return dnserr.New(dnserr.KindParseError, "encoded domain name too long (%d > %d)", end-start, maxNameLen)
	}
	return nil
}

// DecodeName decodes a (possibly compressed) domain name from msg starting
// at off. It returns the dotted name and the offset immediately following
// the encoded name -- per spec, once a compression pointer is followed the
// advancing offset freezes at the byte after the pointer, so callers must
// use the returned next value rather than continuing to scan forward
// themselves.
func DecodeName(msg []byte, off int) (name string, next int, err error) {
	visited := make(map[int]struct{})
	labels := make([]string, 0, 6)
	cur := off
	frozen := -1 // advancing offset once we take our first pointer

	hops := 0
	for {
		if cur < 0 || cur >= len(msg) {
			return "", 0, dnserr.New(dnserr.KindParseError, "unexpected EOF decoding name at offset %d", cur)
		}
		lenByte := msg[cur]

		switch {
		case lenByte == 0:
			cur++
			if frozen < 0 {
				frozen = cur
			}
			return joinLabels(labels), frozen, nil

		case lenByte&0xC0 == 0xC0:
			if cur+1 >= len(msg) {
				return "", 0, dnserr.New(dnserr.KindParseError, "truncated compression pointer at offset %d", cur)
			}
			ptr := int(binary.BigEndian.Uint16([]byte{lenByte & 0x3F, msg[cur+1]}))
			if frozen < 0 {
				frozen = cur + 2
			}
			if ptr >= cur {
				return "", 0, dnserr.New(dnserr.KindParseError, "compression pointer %d does not point backward from %d", ptr, cur)
			}
			if _, seen := visited[ptr]; seen {
				return "", 0, dnserr.New(dnserr.KindParseError, "compression pointer loop at offset %d", ptr)
			}
			visited[ptr] = struct{}{}
			hops++
			if hops > maxCompressionHops {
				return "", 0, dnserr.New(dnserr.KindParseError, "too many compression pointer indirections")
			}
			cur = ptr

		case lenByte&0xC0 != 0:
			return "", 0, dnserr.New(dnserr.KindParseError, "reserved label length bits at offset %d", cur)

		default:
			ll := int(lenByte)
			cur++
			if cur+ll > len(msg) {
				return "", 0, dnserr.New(dnserr.KindParseError, "unexpected EOF reading label at offset %d", cur)
			}
			labels = append(labels, string(msg[cur:cur+ll]))
			cur += ll
			if nameLen(labels) > maxNameLen {
				return "", 0, dnserr.New(dnserr.KindParseError, "decoded name exceeds %d bytes", maxNameLen)
			}
		}
	}
}

func nameLen(labels []string) int {
	n := 1 // root terminator
	for _, l := range labels {
		n += 1 + len(l)
	}
	return n
}

func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return strings.Join(labels, ".")
}
