// Package auth implements transaction-level DNS message authentication:
// TSIG (RFC 2845, shared-secret HMAC) and SIG(0) (RFC 2931, asymmetric
// signatures), both used to authenticate dynamic updates and zone transfers.
package auth

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"
	"time"

	"github.com/corvidns/resolver/internal/dnserr"
	"github.com/corvidns/resolver/internal/wire"
)

// TSIG algorithm names (RFC 4635), used both as the AlgorithmName field and
// as the lookup key into the hash constructor table below.
const (
	HmacMD5    = "hmac-md5.sig-alg.reg.int."
	HmacSHA1   = "hmac-sha1."
	HmacSHA224 = "hmac-sha224."
	HmacSHA256 = "hmac-sha256."
	HmacSHA384 = "hmac-sha384."
	HmacSHA512 = "hmac-sha512."
)

var hashConstructors = map[string]func() hash.Hash{
	HmacMD5:    md5.New,
	HmacSHA1:   sha1.New,
	HmacSHA224: sha256.New224,
	HmacSHA256: sha256.New,
	HmacSHA384: sha512.New384,
	HmacSHA512: sha512.New,
}

// TSIGKey is a shared secret identified by its owner name (RFC 2845 §2).
type TSIGKey struct {
	Name      string
	Algorithm string
	Secret    []byte // raw bytes; callers holding base64 should decode first
}

// TSIGRecord is the synthetic, transport-only TSIG record appended to the
// additional section of a signed message (RFC 2845 §2). It is never stored
// in the RR registry proper since it authenticates a specific message
// exchange rather than describing zone data.
type TSIGRecord struct {
	AlgorithmName string
	TimeSigned    uint64 // 48-bit
	Fudge         uint16
	MAC           []byte
	OriginalID    uint16
	Error         uint16
	OtherData     []byte
}

// Sign computes the TSIG MAC for msg (the fully-assembled wire message,
// minus any TSIG record) under key, per RFC 2845 §3.4: the MAC covers the
// DNS message, the TSIG owner name, CLASS=ANY, TTL=0, the algorithm name,
// time signed, fudge, and any error/other-data.
func Sign(key TSIGKey, msg []byte, timeSigned time.Time, fudge uint16) (TSIGRecord, error) {
	newHash, ok := hashConstructors[key.Algorithm]
	if !ok {
		return TSIGRecord{}, dnserr.New(dnserr.KindOpensslInvAlgo, "unsupported TSIG algorithm %q", key.Algorithm)
	}

	ts := uint64(timeSigned.Unix())
	mac := computeMAC(newHash, key, msg, ts, fudge, 0, nil)

	return TSIGRecord{
		AlgorithmName: key.Algorithm,
		TimeSigned:    ts,
		Fudge:         fudge,
		MAC:           mac,
	}, nil
}

// Verify recomputes the MAC over msg and the signer's claimed variables and
// reports whether it matches rec.MAC, and whether the signature is still
// within the time-signed/fudge window (RFC 2845 §4.6).
func Verify(key TSIGKey, msg []byte, rec TSIGRecord, now time.Time) error {
	newHash, ok := hashConstructors[rec.AlgorithmName]
	if !ok {
		return dnserr.New(dnserr.KindOpensslInvAlgo, "unsupported TSIG algorithm %q", rec.AlgorithmName)
	}
	expected := computeMAC(newHash, key, msg, rec.TimeSigned, rec.Fudge, rec.Error, rec.OtherData)
	if !hmac.Equal(expected, rec.MAC) {
		return dnserr.New(dnserr.KindRcodeError, "TSIG verification failed: MAC mismatch")
	}
	signedAt := time.Unix(int64(rec.TimeSigned), 0)
	delta := now.Sub(signedAt)
	if delta < 0 {
		delta = -delta
	}
	if delta > time.Duration(rec.Fudge)*time.Second {
		return dnserr.New(dnserr.KindRcodeError, "TSIG signature outside fudge window")
	}
	return nil
}

func computeMAC(newHash func() hash.Hash, key TSIGKey, msg []byte, timeSigned uint64, fudge, tsigErr uint16, otherData []byte) []byte {
	mac := hmac.New(newHash, key.Secret)
	mac.Write(msg)

	w := wire.NewWriter(64)
	nameCompressor := wire.NewCompressor()
	_ = nameCompressor.EncodeName(w, key.Name, true)
	w.WriteUint16(uint16(wire.ClassANY))
	w.WriteUint32(0) // TTL
	mac.Write(w.Bytes())

	tw := wire.NewWriter(32)
	alg := wire.NewCompressor()
	_ = alg.EncodeName(tw, key.Algorithm, true)
	timeBuf := []byte{
		byte(timeSigned >> 40), byte(timeSigned >> 32), byte(timeSigned >> 24),
		byte(timeSigned >> 16), byte(timeSigned >> 8), byte(timeSigned),
	}
	tw.WriteBytes(timeBuf)
	tw.WriteUint16(fudge)
	tw.WriteUint16(tsigErr)
	tw.WriteUint16(uint16(len(otherData)))
	tw.WriteBytes(otherData)
	mac.Write(tw.Bytes())

	return mac.Sum(nil)
}

// DecodeSecret base64-decodes a TSIG secret as distributed by key-generation
// tools (dnssec-keygen style "Key:" lines).
func DecodeSecret(b64 string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindOpensslInvAlgo, err, "invalid TSIG secret base64")
	}
	return secret, nil
}
