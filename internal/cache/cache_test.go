package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUPutGetRoundTrip(t *testing.T) {
	c := NewLRU(10)
	c.Put("q", []byte("answer"), time.Minute, Positive)

	val, et, ok := c.Get("q")
	require.True(t, ok)
	assert.Equal(t, []byte("answer"), val)
	assert.Equal(t, Positive, et)
}

func TestLRUMissOnUnknownKey(t *testing.T) {
	c := NewLRU(10)
	_, _, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestLRUExpiresAfterTTL(t *testing.T) {
	c := NewLRU(10)
	c.Put("q", []byte("answer"), time.Millisecond, Positive)
	time.Sleep(5 * time.Millisecond)

	_, _, ok := c.Get("q")
	assert.False(t, ok, "entry should have expired")
}

func TestLRUZeroOrNegativeTTLNeverStored(t *testing.T) {
	c := NewLRU(10)
	c.Put("q", []byte("answer"), 0, Positive)
	_, _, ok := c.Get("q")
	assert.False(t, ok)
}

func TestLRUEvictsOldestBeyondCapacity(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", []byte("1"), time.Minute, Positive)
	c.Put("b", []byte("2"), time.Minute, Positive)
	c.Put("c", []byte("3"), time.Minute, Positive)

	_, _, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, _, ok = c.Get("b")
	assert.True(t, ok)
	_, _, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUNegativeTTLCappedShorterThanPositive(t *testing.T) {
	c := NewLRU(10)
	c.Put("neg", []byte("x"), 48*time.Hour, NXDOMAIN)
	c.Put("pos", []byte("y"), 48*time.Hour, Positive)

	c.mu.Lock()
	negExpiry := c.data["neg"].expiresAt
	posExpiry := c.data["pos"].expiresAt
	c.mu.Unlock()

	assert.True(t, negExpiry.Before(posExpiry), "negative entry should expire before positive one given the same requested TTL")
}

func TestLRUStatsCountsHitsAndMisses(t *testing.T) {
	c := NewLRU(10)
	c.Put("q", []byte("a"), time.Minute, Positive)
	c.Get("q")
	c.Get("missing")

	hits, misses, _ := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestEntryTypeString(t *testing.T) {
	assert.Equal(t, "positive", Positive.String())
	assert.Equal(t, "nxdomain", NXDOMAIN.String())
	assert.Equal(t, "nodata", NODATA.String())
	assert.Equal(t, "servfail", SERVFAIL.String())
}
