// Package cache stores finished evaluation reports on disk so re-running an
// unchanged analysis against the same models costs nothing. Entries are
// keyed by a content hash of the request and stored as zstd-compressed JSON.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/tribunal-ai/tribunal/internal/models"
)

const entryExt = ".json.zst"

// Cache provides report caching rooted at a directory. An empty directory
// disables it: Get always misses and Put is a no-op.
type Cache struct {
	dir string
	mu  sync.Mutex

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a cache instance rooted at dir.
func New(dir string) (*Cache, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Cache{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Key derives the cache key for an evaluation request. The key covers the
// analysis payload, the executive summary, the sorted model list, and the
// effective weights, so any change to what the judges would see produces a
// different key.
func Key(req *models.EvaluationRequest) (string, error) {
	h := sha256.New()

	analysisJSON, err := json.Marshal(req.Analysis)
	if err != nil {
		return "", fmt.Errorf("marshaling analysis package: %w", err)
	}
	if _, err := h.Write(analysisJSON); err != nil {
		return "", err
	}
	if err := writeString(h, req.ExecutiveSummary); err != nil {
		return "", err
	}

	sortedModels := make([]string, len(req.Models))
	copy(sortedModels, req.Models)
	sort.Strings(sortedModels)
	for _, m := range sortedModels {
		if err := writeString(h, m); err != nil {
			return "", err
		}
	}

	weightsJSON, err := json.Marshal(req.EffectiveWeights())
	if err != nil {
		return "", fmt.Errorf("marshaling weights: %w", err)
	}
	if _, err := h.Write(weightsJSON); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get retrieves a cached report if present.
func (c *Cache) Get(key string) (*models.FinalEvaluationReport, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		// Cache miss
		return nil, false
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		// Corrupt entry, treat as miss
		return nil, false
	}

	var report models.FinalEvaluationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false
	}
	return &report, true
}

// Put stores a report in the cache.
func (c *Cache) Put(key string, report *models.FinalEvaluationReport) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	compressed := c.encoder.EncodeAll(data, nil)
	if err := os.WriteFile(c.entryPath(key), compressed, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached reports.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	// Safety check: only delete a directory that looks like ours.
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	if len(entries) > 0 {
		hasValidCache := false
		for _, entry := range entries {
			if entry.IsDir() {
				return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
			}
			if isEntry(entry.Name()) {
				hasValidCache = true
			} else {
				return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
			}
		}
		if !hasValidCache {
			return fmt.Errorf("no valid cache files found in directory - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

func isEntry(name string) bool {
	return len(name) > len(entryExt) && name[len(name)-len(entryExt):] == entryExt
}

func writeString(w io.Writer, s string) error {
	// Null byte delimiter prevents hash collisions between adjacent fields.
	_, err := w.Write([]byte(s + "\x00"))
	return err
}
