package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"
	"github.com/stretchr/testify/require"
)

func entries(t *testing.T, c *ContentCache) int {
	var n int
	require.NoError(t, c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(contentBucket)).Stats().KeyN
		return nil
	}))
	return n
}

func TestContentCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	c, err := OpenContentCache(path)
	require.NoError(t, err)

	_, found := c.Get("abc", "playlists/p1.json")
	assert.False(t, found)

	require.NoError(t, c.Put("abc", "playlists/p1.json", `{"id":"p1"}`))
	require.NoError(t, c.Put("def", "playlists/p1.json", `{"id":"p1","tracks":[]}`))

	content, found := c.Get("abc", "playlists/p1.json")
	assert.True(t, found)
	assert.Equal(t, `{"id":"p1"}`, content)

	content, found = c.Get("def", "playlists/p1.json")
	assert.True(t, found)
	assert.Equal(t, `{"id":"p1","tracks":[]}`, content)
	assert.Equal(t, 2, entries(t, c))
	require.NoError(t, c.Close())

	// Entries survive a reopen.
	c, err = OpenContentCache(path)
	require.NoError(t, err)
	defer c.Close()
	content, found = c.Get("abc", "playlists/p1.json")
	assert.True(t, found)
	assert.Equal(t, `{"id":"p1"}`, content)
}

func TestOpenContentCacheBadPath(t *testing.T) {
	_, err := OpenContentCache(filepath.Join(t.TempDir(), "missing", "dir", "content.db"))
	assert.Error(t, err)
}
