// Package cache provides byte-level caching for datasets and rendered charts.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several hosts rendering
//     from the same remote datasets
//
// Keys are produced by a [Keyer] so that every backend agrees on the key
// layout. [NewScopedKeyer] prefixes keys for isolation between
// environments sharing one Redis.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the cached value for key. The boolean reports a hit.
	// Expired or corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry type.
const (
	// TTLDataset bounds how long fetched CSV bytes are reused.
	TTLDataset = 24 * time.Hour

	// TTLArtifact bounds how long rendered charts are reused.
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys for each entry type.
type Keyer interface {
	// DatasetKey returns the key for the raw bytes behind a locator.
	DatasetKey(locator string) string

	// ArtifactKey returns the key for one rendered chart.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Chart     string  `json:"chart"`
	Format    string  `json:"format"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ThemeHash string  `json:"theme_hash,omitempty"`
	TopN      int     `json:"top_n,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DatasetKey returns "dataset:<locator>".
func (DefaultKeyer) DatasetKey(locator string) string {
	return "dataset:" + locator
}

// ArtifactKey returns "artifact:<sha256(datasetHash, opts)>".
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}
