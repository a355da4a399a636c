package cookie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledManagerReturnsNothing(t *testing.T) {
	m, err := NewManager(false)
	require.NoError(t, err)
	assert.Nil(t, m.Cookie("8.8.8.8:53"))
	assert.Equal(t, [8]byte{}, m.ClientCookie("8.8.8.8:53"))
}

func TestClientCookieStableWithinEpoch(t *testing.T) {
	m, err := NewManager(true)
	require.NoError(t, err)

	a := m.ClientCookie("8.8.8.8:53")
	b := m.ClientCookie("8.8.8.8:53")
	assert.Equal(t, a, b)

	other := m.ClientCookie("1.1.1.1:53")
	assert.NotEqual(t, a, other)
}

func TestRememberAndEchoRoundTrip(t *testing.T) {
	m, err := NewManager(true)
	require.NoError(t, err)

	server := "9.9.9.9:53"
	serverCookie := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	m.Remember(server, serverCookie)

	data := m.Cookie(server)
	client, srv, err := ParseCookie(data)
	require.NoError(t, err)
	assert.Equal(t, m.ClientCookie(server), client)
	assert.Equal(t, serverCookie, srv)
}

func TestVerifyEchoRejectsForeignClientCookie(t *testing.T) {
	m, err := NewManager(true)
	require.NoError(t, err)

	server := "9.9.9.9:53"
	foreign := FormatCookie([8]byte{9, 9, 9, 9, 9, 9, 9, 9}, nil)
	assert.ErrorIs(t, m.VerifyEcho(server, foreign), ErrInvalidClientCookie)

	mine := FormatCookie(m.ClientCookie(server), nil)
	assert.NoError(t, m.VerifyEcho(server, mine))
}

func TestParseCookieRejectsBadServerCookieLength(t *testing.T) {
	data := FormatCookie([8]byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{1, 2, 3})
	_, _, err := ParseCookie(data)
	assert.ErrorIs(t, err, ErrInvalidServerCookie)
}

func TestParseCookieRejectsShortData(t *testing.T) {
	_, _, err := ParseCookie([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidClientCookie)
}
