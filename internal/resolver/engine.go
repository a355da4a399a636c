package resolver

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/corvidns/resolver/internal/cache"
	"github.com/corvidns/resolver/internal/cookie"
	"github.com/corvidns/resolver/internal/dnserr"
	"github.com/corvidns/resolver/internal/transport"
	"github.com/corvidns/resolver/internal/wire"
)

// Recorder receives per-query outcomes for metrics reporting (component J).
// A nil Recorder is valid; Engine checks before every call.
type Recorder interface {
	ObserveQuery(server string, rtt time.Duration, cacheHit bool, errKind dnserr.Kind)
}

// Result is the outcome of a resolved query.
type Result struct {
	Response wire.Packet
	Raw      []byte
	Source   string // "cache", "inflight", or the upstream server that answered
}

type cacheKeyT struct {
	name  string
	qtype wire.RecordType
	class wire.RecordClass
	up    string
}

type inflightCall struct {
	done chan struct{}
	resp []byte
	err  error
}

// Engine is the resolver's send/retry/cache core: one instance per
// configured upstream set, safe for concurrent use.
type Engine struct {
	opts Options

	udp *transport.UDPTransport
	tcp *transport.TCPTransport

	cache cache.Backend

	cookies *cookie.Manager

	limiter *rate.Limiter

	recorder Recorder

	healthMu sync.Mutex
	failedAt map[string]time.Time

	inflightMu sync.Mutex
	inflight   map[cacheKeyT]*inflightCall
}

// New builds an Engine from Options, with a bundled in-process cache unless
// a backend is supplied via WithCache.
func New(opts Options) *Engine {
	if len(opts.Nameservers) == 0 {
		opts = DefaultOptions()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultUDPTimeout
	}
	if opts.TCPTimeout <= 0 {
		opts.TCPTimeout = DefaultTCPTimeout
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = DefaultUDPPoolSize
	}
	if opts.CacheMaxEntries <= 0 {
		opts.CacheMaxEntries = DefaultCacheMaxEntries
	}
	if len(opts.Nameservers) > MaxUpstreams {
		opts.Nameservers = opts.Nameservers[:MaxUpstreams]
	}
	cookies, err := cookie.NewManager(opts.EnableCookies)
	if err != nil {
		cookies, _ = cookie.NewManager(false)
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Engine{
		opts:     opts,
		udp:      transport.NewUDPTransport(opts.PoolSize, opts.Timeout, 4096),
		tcp:      transport.NewTCPTransport(opts.TCPTimeout),
		cache:    cache.NewLRU(opts.CacheMaxEntries),
		cookies:  cookies,
		limiter:  limiter,
		failedAt: make(map[string]time.Time),
		inflight: make(map[cacheKeyT]*inflightCall),
	}
}

// WithCache overrides the bundled in-process cache with an external backend.
func (e *Engine) WithCache(b cache.Backend) *Engine { e.cache = b; return e }

// WithRecorder attaches a metrics Recorder.
func (e *Engine) WithRecorder(r Recorder) *Engine { e.recorder = r; return e }

// Close releases pooled transport connections.
func (e *Engine) Close() error {
	_ = e.udp.Close()
	_ = e.tcp.Close()
	return e.cache.Close()
}

// Resolve sends req (already built, with its own transaction ID) to the
// configured upstreams with caching, singleflight, and failover, returning
// the decoded response with the caller's original ID restored.
func (e *Engine) Resolve(ctx context.Context, req wire.Packet) (Result, error) {
	if len(req.Questions) == 0 {
		return Result{}, dnserr.New(dnserr.KindPacketInvalid, "request has no question section")
	}
	txid := req.Header.ID
	if _, err := req.Marshal(); err != nil {
		return Result{}, err
	}

	up := e.selectUpstream()
	key := e.keyFor(req.Questions[0], up)

	if raw, _, ok := e.cache.Get(key.String()); ok {
		out := wire.PatchTransactionID(raw, txid)
		pkt, err := wire.ParsePacket(out)
		if err != nil {
			return Result{}, err
		}
		e.observe(up, 0, true, dnserr.KindUnspecified)
		return Result{Response: pkt, Raw: out, Source: "cache"}, nil
	}

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	e.inflightMu.Lock()
	if call := e.inflight[key]; call != nil {
		e.inflightMu.Unlock()
		select {
		case <-call.done:
			if call.err != nil {
				return Result{}, call.err
			}
			out := wire.PatchTransactionID(call.resp, txid)
			pkt, err := wire.ParsePacket(out)
			if err != nil {
				return Result{}, err
			}
			return Result{Response: pkt, Raw: out, Source: "inflight"}, nil
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	e.inflight[key] = call
	e.inflightMu.Unlock()

	start := time.Now()
	resp, server, err := e.queryWithFailover(ctx, req, key.up)
	call.resp, call.err = resp, err
	close(call.done)
	e.inflightMu.Lock()
	delete(e.inflight, key)
	e.inflightMu.Unlock()

	if err != nil {
		e.observe(up, time.Since(start), false, kindOf(err))
		return Result{}, err
	}

	out := wire.PatchTransactionID(resp, txid)
	pkt, err := wire.ParsePacket(out)
	if err != nil {
		return Result{}, err
	}
	e.observe(server, time.Since(start), false, dnserr.KindUnspecified)
	return Result{Response: pkt, Raw: out, Source: server}, nil
}

func kindOf(err error) dnserr.Kind {
	if e, ok := err.(*dnserr.Error); ok {
		return e.Kind
	}
	return dnserr.KindUnspecified
}

func (e *Engine) observe(server string, rtt time.Duration, hit bool, kind dnserr.Kind) {
	if e.recorder != nil {
		e.recorder.ObserveQuery(server, rtt, hit, kind)
	}
}

func (k cacheKeyT) String() string {
	return k.name + "\x00" + k.qtype.String() + "\x00" + k.class.String() + "\x00" + k.up
}

func (e *Engine) keyFor(q wire.Question, up string) cacheKeyT {
	return cacheKeyT{name: q.Name, qtype: q.Type, class: q.Class, up: up}
}

// queryWithFailover tries each configured upstream in turn (starting at the
// preferred/healthy one), escalating UDP to TCP on truncation, validating
// the response, and caching a normalized (txid-zeroed) copy on success.
func (e *Engine) queryWithFailover(ctx context.Context, req wire.Packet, preferred string) ([]byte, string, error) {
	servers := e.orderedServers(preferred)
	var lastErr error

	for _, up := range servers {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if !e.canTry(up) {
			continue
		}

		reqBytes, err := e.prepareRequest(req, up)
		if err != nil {
			return nil, "", err
		}

		resp, err := e.queryOne(ctx, up, reqBytes)
		if err != nil {
			lastErr = err
			e.markFailed(up)
			continue
		}
		e.markHealthy(up)
		e.rememberCookie(up, resp)

		if err := e.validate(req, resp); err != nil {
			lastErr = err
			e.markFailed(up)
			continue
		}

		norm := wire.PatchTransactionID(resp, 0)
		decision := e.decisionFor(norm)
		e.cache.Put(e.keyFor(req.Questions[0], up).String(), norm, time.Duration(decision.TTLSeconds)*time.Second, decision.EntryType)
		return norm, up, nil
	}

	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", dnserr.New(dnserr.KindNSFailed, "all name servers failed")
}

// prepareRequest marshals req for a specific upstream: it sets RD when
// Options.Recurse is on, adds an OPT record with DO set (advertising
// Options.DNSSECPayloadSize) when Options.DNSSEC is on and req carries no OPT
// record yet, and attaches a DNS Cookie option (component I) when cookies
// are enabled -- the client cookie is derived per-server, so the same
// logical request serializes differently depending on which upstream it's
// about to go to.
func (e *Engine) prepareRequest(req wire.Packet, server string) ([]byte, error) {
	if e.opts.Recurse {
		req.Header.Flags |= wire.RDFlag
	}
	data := e.cookies.Cookie(server)
	if data == nil && !e.opts.DNSSEC {
		return req.Marshal()
	}
	req.Additionals = append([]wire.Record(nil), req.Additionals...)
	if opt := wire.ExtractOPT(req.Additionals); opt != nil {
		for i := range req.Additionals {
			if data != nil && req.Additionals[i].Type == wire.TypeOPT {
				req.Additionals[i] = wire.WithCookie(req.Additionals[i], data)
				break
			}
		}
	} else {
		size := wire.EDNSDefaultUDPSize
		if e.opts.DNSSEC && e.opts.DNSSECPayloadSize > 0 {
			size = e.opts.DNSSECPayloadSize
		}
		rec := wire.NewOPTRecord(size, e.opts.DNSSEC)
		if data != nil {
			rec = wire.WithCookie(rec, data)
		}
		req.Additionals = append(req.Additionals, rec)
	}
	return req.Marshal()
}

// rememberCookie extracts the server cookie from a response's OPT record,
// if any, so it can be echoed back on the next query to the same upstream.
// A cookie whose echoed client cookie does not match the one sent to this
// upstream is not remembered.
func (e *Engine) rememberCookie(server string, respBytes []byte) {
	pkt, err := wire.ParsePacket(respBytes)
	if err != nil {
		return
	}
	opt := wire.ExtractOPT(pkt.Additionals)
	if opt == nil {
		return
	}
	data, ok := wire.Cookie(*opt)
	if !ok {
		return
	}
	if e.cookies.VerifyEcho(server, data) != nil {
		return
	}
	if _, serverCookie, err := cookie.ParseCookie(data); err == nil {
		e.cookies.Remember(server, serverCookie)
	}
}

func (e *Engine) decisionFor(raw []byte) cache.Decision {
	pkt, err := wire.ParsePacket(raw)
	if err != nil {
		return cache.Decision{TTLSeconds: 0, EntryType: cache.Positive}
	}
	return cache.Analyze(pkt)
}

// queryOne sends req to a single upstream over UDP, making at most
// MaxRetries attempts in total while they time out, and escalates to TCP if
// the response is truncated. With UseTCP set it sends once over TCP instead.
func (e *Engine) queryOne(ctx context.Context, server string, req []byte) ([]byte, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, dnserr.Wrap(dnserr.KindSocketTimeout, err, "rate limiter wait canceled")
		}
	}

	if e.opts.UseTCP {
		return e.tcp.Send(ctx, withPort(server), req)
	}

	var lastErr error
	for i := 0; i < e.opts.MaxRetries; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := e.udp.Send(ctx, withPort(server), req)
		if err != nil {
			lastErr = err
			if dnserrKindIs(err, dnserr.KindSocketTimeout) {
				continue
			}
			return nil, err
		}
		if wire.IsTruncated(resp) {
			return e.tcp.Send(ctx, withPort(server), req)
		}
		return resp, nil
	}
	return nil, lastErr
}

func dnserrKindIs(err error, k dnserr.Kind) bool {
	e, ok := err.(*dnserr.Error)
	return ok && e.Kind == k
}

func withPort(server string) string {
	for i := len(server) - 1; i >= 0; i-- {
		if server[i] == ':' {
			return server
		}
		if server[i] == ']' {
			break
		}
	}
	return server + ":53"
}

// validate checks a response against the request that produced it, per spec
// §4.E step d. The ID match and QR=1 checks are unconditional -- they are not
// the strict_query_mode concern (spec §9/§11's open question is only about
// filtering on a QNAME/QTYPE/QCLASS mismatch). A mismatch on any check here
// is reported to the caller, which records it as a per-server exception and
// moves on to the next upstream rather than failing the whole query.
func (e *Engine) validate(req wire.Packet, respBytes []byte) error {
	resp, err := wire.ParsePacket(respBytes)
	if err != nil {
		return dnserr.Wrap(dnserr.KindParseError, err, "failed to parse upstream response")
	}
	if resp.Header.ID != req.Header.ID {
		return dnserr.New(dnserr.KindHeaderInvalid, "response ID %d does not match request ID %d", resp.Header.ID, req.Header.ID)
	}
	if !resp.Header.QR() {
		return dnserr.New(dnserr.KindHeaderInvalid, "response has QR=0, not a reply")
	}
	if len(resp.Questions) == 0 {
		return dnserr.New(dnserr.KindHeaderInvalid, "response has no question section")
	}
	if !e.opts.StrictQueryMode {
		return nil
	}
	reqQ, resQ := req.Questions[0], resp.Questions[0]
	if wire.NormalizeName(reqQ.Name) != wire.NormalizeName(resQ.Name) {
		return dnserr.New(dnserr.KindHeaderInvalid, "QNAME mismatch: expected %s, got %s", reqQ.Name, resQ.Name)
	}
	if reqQ.Type != resQ.Type {
		return dnserr.New(dnserr.KindHeaderInvalid, "QTYPE mismatch: expected %s, got %s", reqQ.Type, resQ.Type)
	}
	if reqQ.Class != resQ.Class {
		return dnserr.New(dnserr.KindHeaderInvalid, "QCLASS mismatch: expected %s, got %s", reqQ.Class, resQ.Class)
	}
	return nil
}

func (e *Engine) orderedServers(preferred string) []string {
	servers := append([]string(nil), e.opts.Nameservers...)
	if e.opts.NSRandom {
		rand.Shuffle(len(servers), func(i, j int) { servers[i], servers[j] = servers[j], servers[i] })
	}
	for i, s := range servers {
		if s == preferred && i != 0 {
			servers[0], servers[i] = servers[i], servers[0]
			break
		}
	}
	return servers
}

func (e *Engine) selectUpstream() string {
	for _, s := range e.opts.Nameservers {
		if e.canTry(s) {
			return s
		}
	}
	e.healthMu.Lock()
	e.failedAt = make(map[string]time.Time)
	e.healthMu.Unlock()
	return e.opts.Nameservers[0]
}

func (e *Engine) canTry(server string) bool {
	e.healthMu.Lock()
	defer e.healthMu.Unlock()
	failedAt, ok := e.failedAt[server]
	if !ok {
		return true
	}
	if time.Since(failedAt) >= UpstreamRecoveryWindow {
		delete(e.failedAt, server)
		return true
	}
	return false
}

func (e *Engine) markFailed(server string) {
	e.healthMu.Lock()
	defer e.healthMu.Unlock()
	if _, ok := e.failedAt[server]; !ok {
		e.failedAt[server] = time.Now()
	}
}

func (e *Engine) markHealthy(server string) {
	e.healthMu.Lock()
	defer e.healthMu.Unlock()
	delete(e.failedAt, server)
}
