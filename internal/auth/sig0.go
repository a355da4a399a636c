package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"time"

	"github.com/corvidns/resolver/internal/dnserr"
	"github.com/corvidns/resolver/internal/wire"
)

// SIG(0) algorithm numbers (RFC 2931, RFC 4034 §A.1) this package can sign
// with. DSA is intentionally absent: it requires a separate, little-used
// signature encoding and no example in the corpus exercises it, so it is
// left as a documented gap rather than implemented against no reference.
const (
	AlgRSASHA1   uint8 = 5
	AlgRSASHA256 uint8 = 8
	AlgRSASHA512 uint8 = 10
)

// Sig0Key is a private signing identity: the owner name under which the
// corresponding KEY record is published, plus the algorithm and key tag
// callers need to build the SIG(0) record's fixed fields.
type Sig0Key struct {
	SignerName string
	Algorithm  uint8
	KeyTag     uint16
	PrivateKey *rsa.PrivateKey
}

// KeyStore is the external collaborator that loads a SIG(0) signing
// identity by id (e.g. a key file path or label). No file-backed
// implementation ships here; callers supply their own.
type KeyStore interface {
	Load(id string) (Sig0Key, error)
}

func hashFor(alg uint8) (crypto.Hash, error) {
	switch alg {
	case AlgRSASHA1:
		return crypto.SHA1, nil
	case AlgRSASHA256:
		return crypto.SHA256, nil
	case AlgRSASHA512:
		return crypto.SHA512, nil
	default:
		return 0, dnserr.New(dnserr.KindOpensslInvAlgo, "unsupported SIG(0) algorithm %d", alg)
	}
}

func digest(alg uint8, data []byte) ([]byte, crypto.Hash, error) {
	h, err := hashFor(alg)
	if err != nil {
		return nil, 0, err
	}
	switch h {
	case crypto.SHA1:
		sum := sha1.Sum(data)
		return sum[:], h, nil
	case crypto.SHA256:
		sum := sha256.Sum256(data)
		return sum[:], h, nil
	case crypto.SHA512:
		sum := sha512.Sum512(data)
		return sum[:], h, nil
	default:
		return nil, 0, dnserr.New(dnserr.KindOpensslInvAlgo, "unsupported SIG(0) algorithm")
	}
}

// SignSIG0 produces the SIGData for a SIG(0)-signed message (RFC 2931 §3):
// the signature covers the unsigned message bytes plus the SIG RDATA fields
// up to (but not including) the signature itself.
func SignSIG0(key Sig0Key, msg []byte, inception, expiration time.Time) (wire.SIGData, error) {
	sig := wire.SIGData{
		TypeCovered: 0, // SIG(0) covers the whole message, not one RRset
		Algorithm:   key.Algorithm,
		Labels:      0,
		OrigTTL:     0,
		Expiration:  uint32(expiration.Unix()),
		Inception:   uint32(inception.Unix()),
		KeyTag:      key.KeyTag,
		SignerName:  wire.NormalizeName(key.SignerName),
	}

	toSign := sigPreimage(sig, msg)
	sum, h, err := digest(sig.Algorithm, toSign)
	if err != nil {
		return wire.SIGData{}, err
	}
	signature, err := rsa.SignPKCS1v15(rand.Reader, key.PrivateKey, h, sum)
	if err != nil {
		return wire.SIGData{}, dnserr.Wrap(dnserr.KindOpensslInvAlgo, err, "SIG(0) signing failed")
	}
	sig.Signature = signature
	return sig, nil
}

// VerifySIG0 checks a SIG(0) record's signature against pub over msg.
func VerifySIG0(pub *rsa.PublicKey, sig wire.SIGData, msg []byte) error {
	toSign := sigPreimage(sig, msg)
	sum, h, err := digest(sig.Algorithm, toSign)
	if err != nil {
		return err
	}
	if err := rsa.VerifyPKCS1v15(pub, h, sum, sig.Signature); err != nil {
		return dnserr.Wrap(dnserr.KindRcodeError, err, "SIG(0) verification failed")
	}
	return nil
}

// sigPreimage builds the bytes a SIG(0)/SIG/RRSIG signature is computed
// over: the SIG RDATA's fixed fields (through the uncompressed signer name)
// followed by the message it authenticates.
func sigPreimage(sig wire.SIGData, msg []byte) []byte {
	w := wire.NewWriter(len(msg) + 32)
	w.WriteUint16(uint16(sig.TypeCovered))
	w.WriteByte(sig.Algorithm)
	w.WriteByte(sig.Labels)
	w.WriteUint32(sig.OrigTTL)
	w.WriteUint32(sig.Expiration)
	w.WriteUint32(sig.Inception)
	w.WriteUint16(sig.KeyTag)
	c := wire.NewCompressor()
	_ = c.EncodeName(w, sig.SignerName, true)
	w.WriteBytes(msg)
	return w.Bytes()
}
