package wire

import "encoding/binary"

// Writer is the encoding cursor threaded through every encode call. Unlike
// the source's shared mutable packet.offset, a Writer is an explicit value:
// every handler writes to it and the caller reads Offset() back out, so data
// flow through the packet assembler is visible rather than hidden in a
// shared field (see spec Design Notes, "shared mutable offset on packet
// objects").
type Writer struct {
	buf      []byte
	scratch2 [2]byte
}

// NewWriter returns a Writer with the given initial capacity hint.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

// Offset is the number of bytes written so far -- equivalently, where the
// next byte will land.
func (w *Writer) Offset() int { return len(w.buf) }

// Bytes returns the accumulated buffer. The caller must not retain it across
// further writes, since WriteBytes may reallocate.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// ReserveUint16 writes a 2-byte zero placeholder and returns its offset so a
// caller can patch it later with PatchUint16 (used for RDLENGTH, whose value
// is only known after the handler runs).
func (w *Writer) ReserveUint16() (patchAt int) {
	patchAt = len(w.buf)
	w.buf = append(w.buf, 0, 0)
	return patchAt
}

// PatchUint16 overwrites the 2 bytes at offset with v. Used to backfill
// RDLENGTH once a handler has finished writing RDATA.
func (w *Writer) PatchUint16(offset int, v uint16) {
	binary.BigEndian.PutUint16(w.buf[offset:offset+2], v)
}
