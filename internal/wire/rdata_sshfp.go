package wire

import (
	"encoding/hex"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// SSHFPData is the RDATA of an SSHFP record (RFC 4255).
type SSHFPData struct {
	Algorithm   uint8
	FPType      uint8
	Fingerprint []byte
}

func (SSHFPData) rdataMarker() {}

type sshfpCodec struct{}

func (sshfpCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 3 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SSHFP record takes algorithm, type, fingerprint")
	}
	alg, err := strconv.ParseUint(tokens[0], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid SSHFP algorithm %q", tokens[0])
	}
	typ, err := strconv.ParseUint(tokens[1], 10, 8)
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid SSHFP fingerprint type %q", tokens[1])
	}
	fp, err := hex.DecodeString(tokens[2])
	if err != nil {
		return nil, dnserr.Wrap(dnserr.KindRRInvalid, err, "invalid SSHFP fingerprint hex")
	}
	return SSHFPData{Algorithm: uint8(alg), FPType: uint8(typ), Fingerprint: fp}, nil
}
func (sshfpCodec) ToText(d RData) string {
	s := d.(SSHFPData)
	return strconv.Itoa(int(s.Algorithm)) + " " + strconv.Itoa(int(s.FPType)) + " " + hex.EncodeToString(s.Fingerprint)
}
func (sshfpCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen < 2 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "SSHFP rdata too short")
	}
	fp := make([]byte, rdLen-2)
	copy(fp, msg[rdStart+2:rdStart+rdLen])
	return SSHFPData{Algorithm: msg[rdStart], FPType: msg[rdStart+1], Fingerprint: fp}, nil
}
func (sshfpCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	s := d.(SSHFPData)
	w.WriteByte(s.Algorithm)
	w.WriteByte(s.FPType)
	w.WriteBytes(s.Fingerprint)
	return nil
}
func (sshfpCodec) NoCompress() bool { return false }

func init() { Register(TypeSSHFP, sshfpCodec{}) }
