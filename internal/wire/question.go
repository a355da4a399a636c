package wire

import (
	"encoding/binary"

	"github.com/corvidns/resolver/internal/dnserr"
)

// Question is a single DNS question-section entry (RFC 1035 §4.1.2).
type Question struct {
	Name  string
	Type  RecordType
	Class RecordClass
}

func (q Question) encode(w *Writer, c *Compressor) error {
	if err := c.EncodeName(w, q.Name, false); err != nil {
		return err
	}
	w.WriteUint16(uint16(q.Type))
	w.WriteUint16(uint16(q.Class))
	return nil
}

func decodeQuestion(msg []byte, off int) (Question, int, error) {
	name, off, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, 0, err
	}
	if off+4 > len(msg) {
		return Question{}, 0, dnserr.New(dnserr.KindParseError, "unexpected EOF reading question")
	}
	q := Question{
		Name:  NormalizeName(name),
		Type:  RecordType(binary.BigEndian.Uint16(msg[off : off+2])),
		Class: RecordClass(binary.BigEndian.Uint16(msg[off+2 : off+4])),
	}
	return q, off + 4, nil
}
