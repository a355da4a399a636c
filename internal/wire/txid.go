package wire

// PatchTransactionID returns a copy of msg with its 16-bit ID field
// overwritten, used to normalize a cached response's ID to 0 for storage and
// restore a client's original ID before replying with a cached hit.
func PatchTransactionID(msg []byte, id uint16) []byte {
	if len(msg) < 2 {
		return msg
	}
	out := make([]byte, len(msg))
	copy(out, msg)
	out[0] = byte(id >> 8)
	out[1] = byte(id)
	return out
}
