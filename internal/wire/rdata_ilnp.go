package wire

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"

	"github.com/corvidns/resolver/internal/dnserr"
)

// NIDData, L32Data, L64Data, and LPData are the ILNP identifier/locator
// record set (RFC 6742): a multihoming scheme that separates a host's
// stable identifier from its topological locators.

type NIDData struct {
	Preference uint16
	NodeID     uint64
}

func (NIDData) rdataMarker() {}

type L32Data struct {
	Preference uint16
	Locator32  net.IP
}

func (L32Data) rdataMarker() {}

type L64Data struct {
	Preference uint16
	Locator64  uint64
}

func (L64Data) rdataMarker() {}

type LPData struct {
	Preference uint16
	FQDN       string
}

func (LPData) rdataMarker() {}

func formatNodeID(v uint64) string {
	return fmt.Sprintf("%04x:%04x:%04x:%04x", v>>48&0xffff, v>>32&0xffff, v>>16&0xffff, v&0xffff)
}

type nidCodec struct{}

func (nidCodec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "NID text parsing is not supported")
}
func (nidCodec) ToText(d RData) string {
	n := d.(NIDData)
	return strconv.Itoa(int(n.Preference)) + " " + formatNodeID(n.NodeID)
}
func (nidCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen != 10 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "NID record must be 10 bytes")
	}
	return NIDData{Preference: be16(msg, rdStart), NodeID: binary.BigEndian.Uint64(msg[rdStart+2 : rdStart+10])}, nil
}
func (nidCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	n := d.(NIDData)
	w.WriteUint16(n.Preference)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n.NodeID)
	w.WriteBytes(b[:])
	return nil
}
func (nidCodec) NoCompress() bool { return false }

type l32Codec struct{}

func (l32Codec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "L32 text parsing is not supported")
}
func (l32Codec) ToText(d RData) string {
	l := d.(L32Data)
	return strconv.Itoa(int(l.Preference)) + " " + l.Locator32.String()
}
func (l32Codec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen != 6 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "L32 record must be 6 bytes")
	}
	addr := make(net.IP, 4)
	copy(addr, msg[rdStart+2:rdStart+6])
	return L32Data{Preference: be16(msg, rdStart), Locator32: addr}, nil
}
func (l32Codec) ToWire(d RData, w *Writer, c *Compressor) error {
	l := d.(L32Data)
	ip4 := l.Locator32.To4()
	if ip4 == nil {
		return dnserr.New(dnserr.KindRRInvalid, "L32 locator is not IPv4: %v", l.Locator32)
	}
	w.WriteUint16(l.Preference)
	w.WriteBytes(ip4)
	return nil
}
func (l32Codec) NoCompress() bool { return false }

type l64Codec struct{}

func (l64Codec) FromText(tokens []string) (RData, error) {
	return nil, dnserr.New(dnserr.KindRRInvalid, "L64 text parsing is not supported")
}
func (l64Codec) ToText(d RData) string {
	l := d.(L64Data)
	return strconv.Itoa(int(l.Preference)) + " " + formatNodeID(l.Locator64)
}
func (l64Codec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdLen != 10 || rdStart+rdLen > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "L64 record must be 10 bytes")
	}
	return L64Data{Preference: be16(msg, rdStart), Locator64: binary.BigEndian.Uint64(msg[rdStart+2 : rdStart+10])}, nil
}
func (l64Codec) ToWire(d RData, w *Writer, c *Compressor) error {
	l := d.(L64Data)
	w.WriteUint16(l.Preference)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], l.Locator64)
	w.WriteBytes(b[:])
	return nil
}
func (l64Codec) NoCompress() bool { return false }

type lpCodec struct{}

func (lpCodec) FromText(tokens []string) (RData, error) {
	if len(tokens) != 2 {
		return nil, dnserr.New(dnserr.KindRRInvalid, "LP record takes preference and fqdn")
	}
	pref, err := parseUint16Token(tokens[0])
	if err != nil {
		return nil, err
	}
	return LPData{Preference: pref, FQDN: NormalizeName(tokens[1])}, nil
}
func (lpCodec) ToText(d RData) string {
	l := d.(LPData)
	return strconv.Itoa(int(l.Preference)) + " " + l.FQDN + "."
}
func (lpCodec) FromWire(msg []byte, rdStart, rdLen int) (RData, error) {
	if rdStart+2 > len(msg) {
		return nil, dnserr.New(dnserr.KindRRInvalid, "LP rdata too short")
	}
	fqdn, next, err := DecodeName(msg, rdStart+2)
	if err != nil {
		return nil, err
	}
	if next-rdStart != rdLen {
		return nil, dnserr.New(dnserr.KindRRInvalid, "LP rdlength mismatch")
	}
	return LPData{Preference: be16(msg, rdStart), FQDN: NormalizeName(fqdn)}, nil
}
func (lpCodec) ToWire(d RData, w *Writer, c *Compressor) error {
	l := d.(LPData)
	w.WriteUint16(l.Preference)
	return c.EncodeName(w, l.FQDN, true)
}
func (lpCodec) NoCompress() bool { return true }

func init() {
	Register(TypeNID, nidCodec{})
	Register(TypeL32, l32Codec{})
	Register(TypeL64, l64Codec{})
	Register(TypeLP, lpCodec{})
}
