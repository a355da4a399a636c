package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeNameRoundTrip(t *testing.T) {
	w := NewWriter(64)
	c := NewCompressor()
	require.NoError(t, c.EncodeName(w, "www.example.com.", false))

	name, next, err := DecodeName(w.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", name)
	assert.Equal(t, w.Offset(), next)
}

func TestEncodeNameCompressesRepeatedSuffix(t *testing.T) {
	w := NewWriter(128)
	c := NewCompressor()
	require.NoError(t, c.EncodeName(w, "www.example.com.", false))
	firstLen := w.Offset()

	require.NoError(t, c.EncodeName(w, "mail.example.com.", false))
	secondEncodedLen := w.Offset() - firstLen

	// "mail" label (1+4) + pointer (2) is far shorter than re-spelling
	// ".example.com" in full.
	assert.Less(t, secondEncodedLen, 1+4+1+len("example.com.")+2)

	name, _, err := DecodeName(w.Bytes(), firstLen)
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", name)
}

func TestDecodeNameRejectsForwardPointer(t *testing.T) {
	msg := []byte{0xC0, 0x05, 0, 0, 0, 0}
	_, _, err := DecodeName(msg, 0)
	assert.Error(t, err)
}

func TestDecodeNameRejectsPointerLoop(t *testing.T) {
	// offset 0 points to itself.
	msg := []byte{0xC0, 0x00}
	_, _, err := DecodeName(msg, 0)
	assert.Error(t, err)
}

func TestNoCompressSignerNameNeverPointsOrIsPointedTo(t *testing.T) {
	w := NewWriter(128)
	c := NewCompressor()
	require.NoError(t, c.EncodeName(w, "signer.example.com.", true))
	firstLen := w.Offset()

	// Encoding the same name again, compressible, must NOT point into the
	// no-compress instance -- it was never recorded in the dictionary.
	require.NoError(t, c.EncodeName(w, "signer.example.com.", false))
	secondLen := w.Offset() - firstLen
	assert.Greater(t, secondLen, 2, "second encoding should spell the name out, not just a 2-byte pointer")
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "example.com", NormalizeName("Example.COM."))
	assert.Equal(t, "", NormalizeName("."))
}

func TestEncodeNameRejectsLabelTooLong(t *testing.T) {
	w := NewWriter(512)
	c := NewCompressor()
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	err := c.EncodeName(w, string(long)+".com.", false)
	assert.Error(t, err)
}
