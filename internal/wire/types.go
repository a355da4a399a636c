// Package wire implements the DNS binary message format: name compression,
// the header and question sections, the resource-record registry, and the
// full packet assembler/parser (RFC 1035 §3-4 and its extensions).
package wire

// Header flags and masks (RFC 1035 §4.1.1, extended by RFC 4035 AD/CD).
//
//	 0  1  2  3  4  5  6  7  8  9 10 11 12 13 14 15
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA| Z|AD|CD|   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
const (
	QRFlag     uint16 = 0x8000
	OpcodeMask uint16 = 0x7800
	AAFlag     uint16 = 0x0400
	TCFlag     uint16 = 0x0200
	RDFlag     uint16 = 0x0100
	RAFlag     uint16 = 0x0080
	ZFlag      uint16 = 0x0040
	ADFlag     uint16 = 0x0020
	CDFlag     uint16 = 0x0010
	RCodeMask  uint16 = 0x000F
)

// Opcode is the DNS operation code (bits 14-11 of the header flags).
type Opcode uint16

const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
	OpcodeNotify Opcode = 4
	OpcodeUpdate Opcode = 5
)

// RecordType is a DNS resource-record TYPE code.
type RecordType uint16

// Assigned RR type codes with mnemonics (RFC 1035 and its extensions, see
// spec §3/§6 for the RFC list). Not every listed type has a registered
// codec; any type without one, listed or not, round-trips through the
// generic opaque codec.
const (
	TypeA          RecordType = 1
	TypeNS         RecordType = 2
	TypeMD         RecordType = 3
	TypeMF         RecordType = 4
	TypeCNAME      RecordType = 5
	TypeSOA        RecordType = 6
	TypeMB         RecordType = 7
	TypeMG         RecordType = 8
	TypeMR         RecordType = 9
	TypeNULL       RecordType = 10
	TypeWKS        RecordType = 11
	TypePTR        RecordType = 12
	TypeHINFO      RecordType = 13
	TypeMINFO      RecordType = 14
	TypeMX         RecordType = 15
	TypeTXT        RecordType = 16
	TypeRP         RecordType = 17
	TypeAFSDB      RecordType = 18
	TypeSIG        RecordType = 24
	TypeKEY        RecordType = 25
	TypeAAAA       RecordType = 28
	TypeLOC        RecordType = 29
	TypeSRV        RecordType = 33
	TypeNAPTR      RecordType = 35
	TypeKX         RecordType = 36
	TypeCERT       RecordType = 37
	TypeDNAME      RecordType = 39
	TypeOPT        RecordType = 41
	TypeAPL        RecordType = 42
	TypeDS         RecordType = 43
	TypeSSHFP      RecordType = 44
	TypeIPSECKEY   RecordType = 45
	TypeRRSIG      RecordType = 46
	TypeNSEC       RecordType = 47
	TypeDNSKEY     RecordType = 48
	TypeDHCID      RecordType = 49
	TypeNSEC3      RecordType = 50
	TypeNSEC3PARAM RecordType = 51
	TypeTLSA       RecordType = 52
	TypeSMIMEA     RecordType = 53
	TypeHIP        RecordType = 55
	TypeCDS        RecordType = 59
	TypeCDNSKEY    RecordType = 60
	TypeOPENPGPKEY RecordType = 61
	TypeCSYNC      RecordType = 62
	TypeZONEMD     RecordType = 63
	TypeSVCB       RecordType = 64
	TypeHTTPS      RecordType = 65
	TypeSPF        RecordType = 99
	TypeNID        RecordType = 104
	TypeL32        RecordType = 105
	TypeL64        RecordType = 106
	TypeLP         RecordType = 107
	TypeEUI48      RecordType = 108
	TypeEUI64      RecordType = 109
	TypeTKEY       RecordType = 249
	TypeTSIG       RecordType = 250
	TypeIXFR       RecordType = 251
	TypeAXFR       RecordType = 252
	TypeMAILB      RecordType = 253
	TypeMAILA      RecordType = 254
	TypeANY        RecordType = 255
	TypeURI        RecordType = 256
	TypeCAA        RecordType = 257
)

var typeNames = map[RecordType]string{
	TypeA: "A", TypeNS: "NS", TypeMD: "MD", TypeMF: "MF", TypeCNAME: "CNAME",
	TypeSOA: "SOA", TypeMB: "MB", TypeMG: "MG", TypeMR: "MR", TypeNULL: "NULL",
	TypeWKS: "WKS", TypePTR: "PTR", TypeHINFO: "HINFO", TypeMINFO: "MINFO",
	TypeMX: "MX", TypeTXT: "TXT", TypeRP: "RP", TypeAFSDB: "AFSDB",
	TypeSIG: "SIG", TypeKEY: "KEY", TypeAAAA: "AAAA", TypeLOC: "LOC",
	TypeSRV: "SRV", TypeNAPTR: "NAPTR", TypeKX: "KX", TypeCERT: "CERT",
	TypeDNAME: "DNAME", TypeOPT: "OPT", TypeAPL: "APL", TypeDS: "DS",
	TypeSSHFP: "SSHFP", TypeIPSECKEY: "IPSECKEY", TypeRRSIG: "RRSIG",
	TypeNSEC: "NSEC", TypeDNSKEY: "DNSKEY", TypeDHCID: "DHCID",
	TypeNSEC3: "NSEC3", TypeNSEC3PARAM: "NSEC3PARAM", TypeTLSA: "TLSA",
	TypeSMIMEA: "SMIMEA", TypeHIP: "HIP", TypeCDS: "CDS",
	TypeCDNSKEY: "CDNSKEY", TypeOPENPGPKEY: "OPENPGPKEY", TypeCSYNC: "CSYNC",
	TypeZONEMD: "ZONEMD", TypeSVCB: "SVCB", TypeHTTPS: "HTTPS", TypeSPF: "SPF",
	TypeNID: "NID", TypeL32: "L32", TypeL64: "L64", TypeLP: "LP",
	TypeEUI48: "EUI48", TypeEUI64: "EUI64", TypeTKEY: "TKEY",
	TypeTSIG: "TSIG", TypeIXFR: "IXFR", TypeAXFR: "AXFR", TypeMAILB: "MAILB",
	TypeMAILA: "MAILA", TypeANY: "ANY", TypeURI: "URI", TypeCAA: "CAA",
}

// String renders the mnemonic for a known type, or TYPEnnn for an unknown one.
func (t RecordType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "TYPE" + itoa(uint16(t))
}

// RecordClass is a DNS resource-record CLASS code.
type RecordClass uint16

const (
	ClassIN  RecordClass = 1
	ClassCH  RecordClass = 3
	ClassHS  RecordClass = 4
	ClassNONE RecordClass = 254
	ClassANY RecordClass = 255
)

func (c RecordClass) String() string {
	switch c {
	case ClassIN:
		return "IN"
	case ClassCH:
		return "CH"
	case ClassHS:
		return "HS"
	case ClassNONE:
		return "NONE"
	case ClassANY:
		return "ANY"
	default:
		return "CLASS" + itoa(uint16(c))
	}
}

// RCode is a DNS response code (RFC 1035 §4.1.1, extended by RFC 2671/6891
// for the upper 8 bits carried in the OPT TTL field).
type RCode uint16

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
	RCodeYXDomain RCode = 6
	RCodeYXRRSet  RCode = 7
	RCodeNXRRSet  RCode = 8
	RCodeNotAuth  RCode = 9
	RCodeNotZone  RCode = 10
	RCodeBadVers  RCode = 16
)

// RCodeFromFlags extracts the base (non-extended) RCODE from header flags.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
