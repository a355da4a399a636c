// Package resolver implements the send/retry/cache engine that turns a
// question into an answer: upstream selection and failover, UDP with TCP
// escalation on truncation, singleflight deduplication, and response
// caching.
package resolver

import "time"

// Defaults mirrored from the teacher's ForwardingResolver constants.
const (
	DefaultUDPPoolSize     = 256
	DefaultCacheMaxEntries = 20000
	DefaultUDPTimeout      = 3 * time.Second
	DefaultTCPTimeout      = 5 * time.Second
	DefaultMaxRetries      = 3
	MaxUpstreams           = 3
	UpstreamRecoveryWindow = time.Hour
)

// Options is the typed, file/env-loadable configuration surface (spec §6's
// recognized keys), mirroring the teacher's internal/config field set but
// scoped to a client library rather than a server process.
type Options struct {
	Nameservers []string      // upstream servers, "host:port"; port defaults to 53
	UseTCP      bool          // force TCP for every query instead of UDP-first
	Timeout     time.Duration // per-attempt timeout
	TCPTimeout  time.Duration
	MaxRetries  int
	PoolSize    int // pooled UDP sockets per upstream

	NSRandom bool // shuffle upstream order instead of trying in listed order

	Domain     string   // default domain appended to unqualified names
	SearchList []string // search-list suffixes tried in order

	CacheMaxEntries int

	// StrictQueryMode resolves spec.md's open question on response
	// validation strictness: when true, QNAME/QTYPE/QCLASS mismatches
	// between request and response are treated as a hard error; when
	// false, such mismatches are accepted without error, matching how
	// lenient stub resolvers in the wild behave.
	StrictQueryMode bool

	DNSSEC            bool // set DO bit on outgoing queries
	DNSSECADFlag      bool
	DNSSECCDFlag      bool
	DNSSECPayloadSize int

	Recurse bool // set RD bit on outgoing queries

	// EnableCookies turns on RFC 7873/9018 DNS Cookies (component I): every
	// outgoing query carries a COOKIE EDNS option, and echoed server cookies
	// are remembered per upstream and replayed on the next query.
	EnableCookies bool

	// RateLimit caps outbound queries per second across all upstreams; zero
	// (the default) leaves sends unthrottled. Useful for a caller driving
	// bulk AXFR or bulk lookups that must not overrun a server's rate limits.
	RateLimit float64
	// RateBurst is the token bucket's burst size; ignored when RateLimit is 0.
	RateBurst int
}

// SystemConfigSource is the seam an external resolv.conf reader (or any
// other system source of nameservers/search domains) plugs into. No
// implementation ships in this module; it is read by the caller and turned
// into Options.
type SystemConfigSource interface {
	Nameservers() []string
	Domain() string
	SearchList() []string
	Options() map[string]string
}

// DefaultOptions returns an Options populated with the same defaults the
// teacher's NewForwardingResolver falls back to when fields are zero.
func DefaultOptions() Options {
	return Options{
		Nameservers:       []string{"8.8.8.8:53"},
		Timeout:           DefaultUDPTimeout,
		TCPTimeout:        DefaultTCPTimeout,
		MaxRetries:        DefaultMaxRetries,
		PoolSize:          DefaultUDPPoolSize,
		CacheMaxEntries:   DefaultCacheMaxEntries,
		DNSSECPayloadSize: 1232,
	}
}
