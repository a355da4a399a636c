// Package cookie implements client-side DNS Cookies (RFC 7873, RFC 9018): a
// lightweight mechanism that lets a resolver prove continuity with an
// upstream across queries without a full transaction handshake, defending
// against off-path response spoofing.
//
// The client cookie is derived with SipHash-2-4 the way BIND 9 derives its
// cookies (https://kb.isc.org/docs/aa-01387); the server cookie returned by
// an upstream is opaque and simply echoed back on the next query to that
// upstream.
package cookie

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/dchest/siphash"
)

var (
	ErrInvalidCookie       = errors.New("invalid cookie format")
	ErrInvalidClientCookie = errors.New("invalid client cookie")
	ErrInvalidServerCookie = errors.New("invalid server cookie")
)

const (
	clientCookieSize = 8 // 64 bits, RFC 7873 §4

	// secretRotationInterval is how often the per-process client-cookie
	// secret is replaced; rotating invalidates any in-flight server cookie
	// so upstreams see a fresh handshake rather than a stale one.
	secretRotationInterval = 24 * time.Hour
)

// Manager derives and remembers DNS Cookies per upstream server.
type Manager struct {
	mu     sync.RWMutex
	secret [16]byte
	rotate time.Time

	enabled bool

	// serverCookies remembers the last server cookie an upstream returned,
	// keyed by "host:port", so it can be echoed on the next query.
	serverCookies map[string][]byte
}

// NewManager creates a cookie manager. When enabled is false, ClientCookie
// and Cookie return zero values and every query goes out without a cookie.
func NewManager(enabled bool) (*Manager, error) {
	m := &Manager{enabled: enabled, serverCookies: make(map[string][]byte)}
	if enabled {
		if err := m.rotateSecret(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Manager) rotateSecret() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := rand.Read(m.secret[:]); err != nil {
		return err
	}
	m.rotate = time.Now()
	return nil
}

func (m *Manager) maybeRotate() {
	m.mu.RLock()
	stale := time.Since(m.rotate) > secretRotationInterval
	m.mu.RUnlock()
	if stale {
		_ = m.rotateSecret()
	}
}

// ClientCookie derives an 8-byte client cookie for server, stable for the
// current secret epoch so the same upstream sees the same client cookie
// across queries within a rotation window (RFC 7873 §5.1 recommends a
// cookie that survives client restarts within reason, not a fresh random
// cookie per query).
func (m *Manager) ClientCookie(server string) [8]byte {
	var out [8]byte
	if !m.enabled {
		return out
	}
	m.maybeRotate()

	m.mu.RLock()
	secret := m.secret
	m.mu.RUnlock()

	h := siphash.New(secret[:])
	h.Write([]byte(server))
	binary.LittleEndian.PutUint64(out[:], h.Sum64())
	return out
}

// Remember stores the server cookie returned in a response's COOKIE option
// so it can be echoed on the next query to the same upstream.
func (m *Manager) Remember(server string, serverCookie []byte) {
	if !m.enabled || len(serverCookie) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(serverCookie))
	copy(cp, serverCookie)
	m.serverCookies[server] = cp
}

// Cookie builds the full COOKIE option payload for a query to server: the
// client cookie, plus any server cookie remembered from a prior response.
func (m *Manager) Cookie(server string) []byte {
	if !m.enabled {
		return nil
	}
	client := m.ClientCookie(server)
	m.mu.RLock()
	srv := m.serverCookies[server]
	m.mu.RUnlock()
	return FormatCookie(client, srv)
}

// VerifyEcho checks that a response's echoed client cookie matches the one
// this resolver sent, guarding against an off-path response forging a
// COOKIE option for a different client (RFC 7873 §5.3).
func (m *Manager) VerifyEcho(server string, data []byte) error {
	if !m.enabled {
		return nil
	}
	clientCookie, _, err := ParseCookie(data)
	if err != nil {
		return err
	}
	want := m.ClientCookie(server)
	if subtle.ConstantTimeCompare(clientCookie[:], want[:]) != 1 {
		return ErrInvalidClientCookie
	}
	return nil
}

// ParseCookie extracts the client and (optional) server cookie from a
// COOKIE option's data (RFC 7873 §4): an 8-byte client cookie, optionally
// followed by an 8-32 byte server cookie.
func ParseCookie(data []byte) (clientCookie [8]byte, serverCookie []byte, err error) {
	if len(data) < clientCookieSize {
		return clientCookie, nil, ErrInvalidClientCookie
	}
	copy(clientCookie[:], data[:clientCookieSize])
	if len(data) > clientCookieSize {
		serverCookie = append([]byte(nil), data[clientCookieSize:]...)
		if len(serverCookie) < 8 || len(serverCookie) > 32 {
			return clientCookie, nil, ErrInvalidServerCookie
		}
	}
	return clientCookie, serverCookie, nil
}

// FormatCookie assembles COOKIE option data from a client cookie and an
// optional server cookie.
func FormatCookie(clientCookie [8]byte, serverCookie []byte) []byte {
	data := make([]byte, clientCookieSize+len(serverCookie))
	copy(data[:clientCookieSize], clientCookie[:])
	copy(data[clientCookieSize:], serverCookie)
	return data
}
