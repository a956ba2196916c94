// Package cache provides a small layered cache for successful extractions,
// so repeated runs over the same batch do not re-fetch (and re-pay for)
// browser renders.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is the minimal cache contract shared by all layers.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "newscurator:v1:" + hex.EncodeToString(sum[:])
}
