package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Disk is a Store persisted as a single JSON file so cached data survives restarts.
// The whole file is loaded at construction and rewritten on every Set.
type Disk[V any] struct {
	mu      sync.Mutex
	path    string
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// NewDisk opens (or lazily creates) the cache file at path.
// A missing or unreadable file starts an empty cache.
func NewDisk[V any](path string, ttl time.Duration) *Disk[V] {
	d := &Disk[V]{
		path:    path,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	if err := d.load(); err != nil {
		log.WithError(err).WithField("path", path).Warn("cache: ignoring unreadable cache file")
	}
	return d
}

func (d *Disk[V]) load() error {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	entries := make(map[string]entry[V])
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	d.entries = entries
	return nil
}

func (d *Disk[V]) Get(key string) (V, bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[key]
	if !ok {
		var zero V
		return zero, false, false
	}
	return e.Value, e.fresh(d.now(), d.ttl), true
}

// Set stores value and persists the cache. Persistence failures are logged; the
// in-memory copy is still updated.
func (d *Disk[V]) Set(key string, value V) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[key] = newEntry(value, d.now())
	if err := d.flush(); err != nil {
		log.WithError(err).WithField("path", d.path).Warn("cache: failed to persist cache file")
	}
}

func (d *Disk[V]) flush() error {
	data, err := json.Marshal(d.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	tmp := d.path + ".tmp"
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, d.path)
}
