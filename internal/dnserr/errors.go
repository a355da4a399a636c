// Package dnserr defines the single error type the resolver core uses to
// report failures, and the sentinel Kind values callers can match on with
// errors.Is.
package dnserr

import (
	"errors"
	"fmt"
)

// Kind classifies a resolver error. Values mirror the failure taxonomy the
// core distinguishes: wire-format problems, header/response validation,
// RCODE propagation, name-server/transport failures, and the external
// collaborators (cache, key store) the core depends on but does not
// implement.
type Kind int

const (
	KindUnspecified Kind = iota
	KindParseError
	KindHeaderInvalid
	KindRcodeError
	KindNSInvalidEntry
	KindNSInvalidFile
	KindNSInvalidSocket
	KindNSSocketFailed
	KindNSFailed
	KindSocketTimeout
	KindCacheShmUnavail
	KindCacheUnsupported
	KindOpensslUnavail
	KindOpensslInvAlgo
	KindRRInvalid
	KindPacketInvalid
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "ParseError"
	case KindHeaderInvalid:
		return "HeaderInvalid"
	case KindRcodeError:
		return "RcodeError"
	case KindNSInvalidEntry:
		return "NSInvalidEntry"
	case KindNSInvalidFile:
		return "NSInvalidFile"
	case KindNSInvalidSocket:
		return "NSInvalidSocket"
	case KindNSSocketFailed:
		return "NSSocketFailed"
	case KindNSFailed:
		return "NSFailed"
	case KindSocketTimeout:
		return "SocketTimeout"
	case KindCacheShmUnavail:
		return "CacheShmUnavail"
	case KindCacheUnsupported:
		return "CacheUnsupported"
	case KindOpensslUnavail:
		return "OpensslUnavail"
	case KindOpensslInvAlgo:
		return "OpensslInvAlgo"
	case KindRRInvalid:
		return "RRInvalid"
	case KindPacketInvalid:
		return "PacketInvalid"
	default:
		return "Unspecified"
	}
}

// sentinels, one per Kind, so callers can do errors.Is(err, dnserr.ErrParse).
var (
	ErrParse          = errors.New("dns: parse error")
	ErrHeaderInvalid  = errors.New("dns: header invalid")
	ErrRcode          = errors.New("dns: rcode error")
	ErrNSInvalidEntry = errors.New("dns: invalid name server entry")
	ErrNSInvalidFile  = errors.New("dns: invalid name server file")
	ErrNSInvalidSocket = errors.New("dns: invalid socket")
	ErrNSSocketFailed = errors.New("dns: socket failed")
	ErrNSFailed       = errors.New("dns: all name servers failed")
	ErrSocketTimeout  = errors.New("dns: socket timeout")
	ErrCacheShmUnavail = errors.New("dns: shared memory cache unavailable")
	ErrCacheUnsupported = errors.New("dns: cache backend unsupported")
	ErrOpensslUnavail = errors.New("dns: signing prerequisites unavailable")
	ErrOpensslInvAlgo = errors.New("dns: invalid signing algorithm")
	ErrRRInvalid      = errors.New("dns: invalid resource record")
	ErrPacketInvalid  = errors.New("dns: packet invalid")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindParseError:
		return ErrParse
	case KindHeaderInvalid:
		return ErrHeaderInvalid
	case KindRcodeError:
		return ErrRcode
	case KindNSInvalidEntry:
		return ErrNSInvalidEntry
	case KindNSInvalidFile:
		return ErrNSInvalidFile
	case KindNSInvalidSocket:
		return ErrNSInvalidSocket
	case KindNSSocketFailed:
		return ErrNSSocketFailed
	case KindNSFailed:
		return ErrNSFailed
	case KindSocketTimeout:
		return ErrSocketTimeout
	case KindCacheShmUnavail:
		return ErrCacheShmUnavail
	case KindCacheUnsupported:
		return ErrCacheUnsupported
	case KindOpensslUnavail:
		return ErrOpensslUnavail
	case KindOpensslInvAlgo:
		return ErrOpensslInvAlgo
	case KindRRInvalid:
		return ErrRRInvalid
	case KindPacketInvalid:
		return ErrPacketInvalid
	default:
		return errors.New("dns: error")
	}
}

// Error is the single error type the core raises. It carries enough context
// to let a caller inspect what went wrong without parsing a message string:
// the Kind, and optionally the raw request/response bytes involved.
type Error struct {
	Kind     Kind
	Message  string
	Request  []byte
	Response []byte
	Rcode    uint16 // valid when Kind == KindRcodeError
	wrapped  error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the cause attached with Wrap, or else the sentinel for e's
// Kind, so errors.Is/errors.As can reach a wrapped cause.
func (e *Error) Unwrap() error {
	if e.wrapped != nil {
		return e.wrapped
	}
	return sentinelFor(e.Kind)
}

// Is lets errors.Is(err, dnserr.ErrParse) succeed for any *Error of the
// matching Kind, including one built with Wrap around a different cause.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

// New constructs an *Error of the given kind with a formatted message.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind around a lower-level cause,
// preserving it for errors.Is/errors.As unwrapping.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), wrapped: cause}
}

// WithRequest attaches the raw request bytes that were in flight when the
// error occurred and returns the same *Error for chaining.
func (e *Error) WithRequest(b []byte) *Error {
	e.Request = b
	return e
}

// WithResponse attaches the raw response bytes that triggered the error.
func (e *Error) WithResponse(b []byte) *Error {
	e.Response = b
	return e
}

// Rcode mnemonics (RFC 1035 §4.1.1), used to render RcodeError messages.
var rcodeMnemonic = map[uint16]string{
	0: "NOERROR", 1: "FORMERR", 2: "SERVFAIL", 3: "NXDOMAIN",
	4: "NOTIMP", 5: "REFUSED", 6: "YXDOMAIN", 7: "YXRRSET",
	8: "NXRRSET", 9: "NOTAUTH", 10: "NOTZONE", 16: "BADVERS",
}

// NewRcodeError builds a KindRcodeError *Error with the standard mnemonic as
// its message, per spec: "message is the standard mnemonic".
func NewRcodeError(rcode uint16) *Error {
	name, ok := rcodeMnemonic[rcode]
	if !ok {
		name = fmt.Sprintf("RCODE%d", rcode)
	}
	return &Error{Kind: KindRcodeError, Message: name, Rcode: rcode}
}
