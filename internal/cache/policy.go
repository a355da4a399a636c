package cache

import "github.com/corvidns/resolver/internal/wire"

// Decision carries the caching parameters the resolver engine derives from a
// response, per RFC 2308: SERVFAIL gets a short TTL, NXDOMAIN/NODATA use the
// authority section's SOA MINIMUM, and a positive answer uses the smallest
// TTL among its answer records. Directly grounded on the teacher's
// analyzeCacheDecision/extractSOAMinimum/findMinimumTTL trio.
type Decision struct {
	TTLSeconds int
	EntryType  EntryType
}

const (
	servfailTTL    = 30
	defaultNegTTL  = 300
)

// Analyze derives a caching Decision from a parsed response packet.
func Analyze(resp wire.Packet) Decision {
	rcode := resp.Header.Rcode()

	switch rcode {
	case wire.RCodeServFail:
		return Decision{TTLSeconds: servfailTTL, EntryType: SERVFAIL}
	case wire.RCodeNXDomain:
		ttl := extractSOAMinimum(resp)
		if ttl <= 0 {
			ttl = defaultNegTTL
		}
		return Decision{TTLSeconds: ttl, EntryType: NXDOMAIN}
	case wire.RCodeNoError:
		if len(resp.Answers) == 0 {
			ttl := extractSOAMinimum(resp)
			if ttl <= 0 {
				ttl = defaultNegTTL
			}
			return Decision{TTLSeconds: ttl, EntryType: NODATA}
		}
		return Decision{TTLSeconds: findMinimumTTL(resp.Answers), EntryType: Positive}
	default:
		return Decision{TTLSeconds: 0, EntryType: Positive}
	}
}

func findMinimumTTL(answers []wire.Record) int {
	min := -1
	for _, a := range answers {
		if min < 0 || int(a.TTL) < min {
			min = int(a.TTL)
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

func extractSOAMinimum(resp wire.Packet) int {
	for _, r := range resp.Authorities {
		if r.Type != wire.TypeSOA {
			continue
		}
		soa, ok := r.RData.(wire.SOAData)
		if !ok {
			continue
		}
		return int(soa.Minimum)
	}
	return 0
}
