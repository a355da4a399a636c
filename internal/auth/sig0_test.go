package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSIG0SignVerifyRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key := Sig0Key{SignerName: "update.example.com.", Algorithm: AlgRSASHA256, KeyTag: 4242, PrivateKey: priv}
	msg := []byte("pretend this is a marshaled UPDATE message")

	inception := time.Unix(1700000000, 0)
	expiration := inception.Add(time.Hour)

	sig, err := SignSIG0(key, msg, inception, expiration)
	require.NoError(t, err)
	assert.Equal(t, key.Algorithm, sig.Algorithm)
	assert.Equal(t, key.KeyTag, sig.KeyTag)
	assert.Equal(t, "update.example.com", sig.SignerName)
	assert.NotEmpty(t, sig.Signature)

	require.NoError(t, VerifySIG0(&priv.PublicKey, sig, msg))
}

func TestSIG0VerifyRejectsTamperedMessage(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key := Sig0Key{SignerName: "update.example.com.", Algorithm: AlgRSASHA1, KeyTag: 1, PrivateKey: priv}
	now := time.Unix(1700000000, 0)

	sig, err := SignSIG0(key, []byte("original"), now, now.Add(time.Hour))
	require.NoError(t, err)

	err = VerifySIG0(&priv.PublicKey, sig, []byte("tampered"))
	assert.Error(t, err)
}

func TestSIG0UnsupportedAlgorithm(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key := Sig0Key{SignerName: "x.example.com.", Algorithm: 200, KeyTag: 1, PrivateKey: priv}
	_, err = SignSIG0(key, []byte("msg"), time.Now(), time.Now().Add(time.Hour))
	assert.Error(t, err)
}
