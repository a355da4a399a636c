package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSIGSignVerifyRoundTrip(t *testing.T) {
	key := TSIGKey{Name: "key.example.com.", Algorithm: HmacSHA256, Secret: []byte("super-secret-value")}
	msg := []byte("pretend this is a marshaled DNS message")

	now := time.Unix(1700000000, 0)
	rec, err := Sign(key, msg, now, 300)
	require.NoError(t, err)
	assert.Equal(t, HmacSHA256, rec.AlgorithmName)
	assert.NotEmpty(t, rec.MAC)

	require.NoError(t, Verify(key, msg, rec, now.Add(10*time.Second)))
}

func TestTSIGVerifyRejectsTamperedMessage(t *testing.T) {
	key := TSIGKey{Name: "key.example.com.", Algorithm: HmacSHA256, Secret: []byte("super-secret-value")}
	now := time.Unix(1700000000, 0)

	rec, err := Sign(key, []byte("original message"), now, 300)
	require.NoError(t, err)

	err = Verify(key, []byte("tampered message"), rec, now)
	assert.Error(t, err)
}

func TestTSIGVerifyRejectsOutsideFudgeWindow(t *testing.T) {
	key := TSIGKey{Name: "key.example.com.", Algorithm: HmacSHA256, Secret: []byte("super-secret-value")}
	now := time.Unix(1700000000, 0)

	rec, err := Sign(key, []byte("message"), now, 30)
	require.NoError(t, err)

	err = Verify(key, []byte("message"), rec, now.Add(time.Hour))
	assert.Error(t, err)
}

func TestTSIGUnsupportedAlgorithm(t *testing.T) {
	key := TSIGKey{Name: "key.example.com.", Algorithm: "hmac-sha3000.", Secret: []byte("x")}
	_, err := Sign(key, []byte("msg"), time.Now(), 300)
	assert.Error(t, err)
}

func TestDecodeSecretRejectsInvalidBase64(t *testing.T) {
	_, err := DecodeSecret("not-valid-base64!!!")
	assert.Error(t, err)
}
