// Package update builds RFC 2136 dynamic DNS UPDATE messages: a zone
// section naming the zone to update, prerequisite RRs that must hold before
// the update applies, and update RRs describing the add/delete operations.
package update

import "github.com/corvidns/resolver/internal/wire"

// Builder assembles an UPDATE message section by section (RFC 2136 §2).
type Builder struct {
	zone    wire.Question
	prereqs []wire.Record
	updates []wire.Record
}

// New starts a Builder for the named zone.
func New(zone string) *Builder {
	return &Builder{
		zone: wire.Question{Name: wire.NormalizeName(zone), Type: wire.TypeSOA, Class: wire.ClassIN},
	}
}

// RequireRRsetExists asserts that an RRset of the given name/type exists,
// regardless of content (RFC 2136 §2.4.1): CLASS=ANY, TYPE=rrtype, TTL=0,
// RDLENGTH=0.
func (b *Builder) RequireRRsetExists(name string, rrtype wire.RecordType) *Builder {
	b.prereqs = append(b.prereqs, wire.Record{Name: wire.NormalizeName(name), Type: rrtype, Class: wire.ClassANY, TTL: 0, RData: nil})
	return b
}

// RequireRRsetExact asserts that an RRset of the given name/type exists and
// its content matches rdata exactly (RFC 2136 §2.4.2): CLASS is the zone
// class, TTL=0.
func (b *Builder) RequireRRsetExact(name string, rrtype wire.RecordType, rdata wire.RData) *Builder {
	b.prereqs = append(b.prereqs, wire.Record{Name: wire.NormalizeName(name), Type: rrtype, Class: wire.ClassIN, TTL: 0, RData: rdata})
	return b
}

// RequireRRsetAbsent asserts that no RRset of the given name/type exists
// (RFC 2136 §2.4.3): CLASS=NONE, TYPE=rrtype, TTL=0, RDLENGTH=0.
func (b *Builder) RequireRRsetAbsent(name string, rrtype wire.RecordType) *Builder {
	b.prereqs = append(b.prereqs, wire.Record{Name: wire.NormalizeName(name), Type: rrtype, Class: wire.ClassNONE, TTL: 0, RData: nil})
	return b
}

// RequireNameInUse asserts the name has at least one RRset, of any type
// (RFC 2136 §2.4.4): CLASS=ANY, TYPE=ANY, TTL=0, RDLENGTH=0.
func (b *Builder) RequireNameInUse(name string) *Builder {
	b.prereqs = append(b.prereqs, wire.Record{Name: wire.NormalizeName(name), Type: wire.TypeANY, Class: wire.ClassANY, TTL: 0, RData: nil})
	return b
}

// RequireNameNotInUse asserts the name has no RRsets of any type (RFC 2136
// §2.4.5): CLASS=NONE, TYPE=ANY, TTL=0, RDLENGTH=0.
func (b *Builder) RequireNameNotInUse(name string) *Builder {
	b.prereqs = append(b.prereqs, wire.Record{Name: wire.NormalizeName(name), Type: wire.TypeANY, Class: wire.ClassNONE, TTL: 0, RData: nil})
	return b
}

// Add appends an RR to the zone (RFC 2136 §2.5.1): ordinary CLASS/TTL/RDATA.
func (b *Builder) Add(name string, rrtype wire.RecordType, ttl uint32, rdata wire.RData) *Builder {
	b.updates = append(b.updates, wire.Record{Name: wire.NormalizeName(name), Type: rrtype, Class: wire.ClassIN, TTL: ttl, RData: rdata})
	return b
}

// DeleteRRset deletes every RRset of the given name/type (RFC 2136 §2.5.2):
// CLASS=ANY, TTL=0, RDLENGTH=0.
func (b *Builder) DeleteRRset(name string, rrtype wire.RecordType) *Builder {
	b.updates = append(b.updates, wire.Record{Name: wire.NormalizeName(name), Type: rrtype, Class: wire.ClassANY, TTL: 0, RData: nil})
	return b
}

// DeleteAllRRsets deletes every RRset at the given name (RFC 2136 §2.5.3):
// CLASS=ANY, TYPE=ANY, TTL=0, RDLENGTH=0.
func (b *Builder) DeleteAllRRsets(name string) *Builder {
	b.updates = append(b.updates, wire.Record{Name: wire.NormalizeName(name), Type: wire.TypeANY, Class: wire.ClassANY, TTL: 0, RData: nil})
	return b
}

// DeleteExactRRset deletes one specific RR from an RRset (RFC 2136 §2.5.4):
// CLASS=NONE, TTL=0, RDATA identifies which record to remove.
func (b *Builder) DeleteExactRRset(name string, rrtype wire.RecordType, rdata wire.RData) *Builder {
	b.updates = append(b.updates, wire.Record{Name: wire.NormalizeName(name), Type: rrtype, Class: wire.ClassNONE, TTL: 0, RData: rdata})
	return b
}

// Build assembles the complete UPDATE message with the given transaction ID
// (RFC 2136 §3.1: ZOCOUNT=1, PRCOUNT, UPCOUNT, ADCOUNT=0 unless a signer
// attaches a TSIG/SIG(0) record afterward).
func (b *Builder) Build(id uint16) wire.Packet {
	return wire.Packet{
		Header: wire.Header{
			ID:    id,
			Flags: wire.BuildFlags(false, wire.OpcodeUpdate, false, false, false, false, false, false, wire.RCodeNoError),
		},
		Questions:   []wire.Question{b.zone},
		Answers:     b.prereqs,
		Authorities: b.updates,
	}
}
