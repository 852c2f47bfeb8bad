package cache

import (
	"time"

	"github.com/rohankatakam/playlistlog/internal/errors"
	bolt "go.etcd.io/bbolt"
)

const contentBucket = "raw_content"

// ContentCache stores raw file content keyed by commit sha and path.
// Content at a given sha never changes, so entries never expire.
type ContentCache struct {
	db *bolt.DB
}

// OpenContentCache opens (or creates) the cache database at path
func OpenContentCache(path string) (*ContentCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.FileSystemErrorf(err, "failed to open content cache %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(contentBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.FileSystemErrorf(err, "failed to initialize content cache %s", path)
	}

	return &ContentCache{db: db}, nil
}

func contentKey(sha, path string) []byte {
	return []byte(sha + ":" + path)
}

// Get returns the cached content and whether it was present
func (c *ContentCache) Get(sha, path string) (string, bool) {
	var (
		content string
		found   bool
	)
	c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(contentBucket)).Get(contentKey(sha, path))
		if data != nil {
			content = string(data)
			found = true
		}
		return nil
	})
	return content, found
}

// Put stores content for (sha, path)
func (c *ContentCache) Put(sha, path, content string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(contentBucket)).Put(contentKey(sha, path), []byte(content))
	})
}

// Close releases the database file
func (c *ContentCache) Close() error {
	return c.db.Close()
}
