// Package cache remembers which files were already formatted so repeated
// runs over a tree can skip them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

const bucketFormatted = "formatted"

// openTimeout bounds how long Open waits for another process holding the
// database lock.
const openTimeout = time.Second

// Cache is a persistent map from file path to the key of content that is
// known to be formatted. It is safe for concurrent use.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketFormatted))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key identifies content formatted under opts. Changing either the content
// or any option yields a different key.
func Key(content string, opts formatter.Options) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(opts.IndentSize)))
	for _, b := range []bool{opts.UseSpaces, opts.InlineShortElements, opts.PreserveUserMultiline} {
		h.Write([]byte(strconv.FormatBool(b)))
	}
	h.Write([]byte(strconv.Itoa(opts.ShortElementThreshold)))
	return hex.EncodeToString(h.Sum(nil))
}

// Formatted reports whether path was recorded with exactly this content and
// these options.
func (c *Cache) Formatted(path, content string, opts formatter.Options) (bool, error) {
	want := Key(content, opts)
	var hit bool
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketFormatted))
		hit = string(b.Get([]byte(path))) == want
		return nil
	})
	return hit, err
}

// Record stores content as the formatted state of path.
func (c *Cache) Record(path, content string, opts formatter.Options) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketFormatted))
		return b.Put([]byte(path), []byte(Key(content, opts)))
	})
}

// Forget removes path from the cache.
func (c *Cache) Forget(path string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketFormatted))
		return b.Delete([]byte(path))
	})
}
