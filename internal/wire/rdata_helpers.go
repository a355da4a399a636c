package wire

import "encoding/binary"

// be16/be32 read big-endian integers out of a record's rdata slice; most
// fixed-field codecs in this package use them. They do no bounds checking of
// their own: callers check the offsets against the message first.
func be16(b []byte, off int) uint16 { return binary.BigEndian.Uint16(b[off : off+2]) }
func be32(b []byte, off int) uint32 { return binary.BigEndian.Uint32(b[off : off+4]) }
