package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"typeflow/internal/flow"
	"typeflow/internal/source"
)

// Current schema version - increment when Report or cachePayload changes.
const reportCacheSchemaVersion uint16 = 1

// CacheKey identifies a cached report: file content plus every option that
// changes the outcome.
type CacheKey [32]byte

// ReportCache хранит отчёты чистых файлов на диске, ключ - хеш содержимого.
// Thread-safe for concurrent access.
type ReportCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema uint16
	Saved  time.Time
	Report *Report
}

// OpenReportCache initializes a cache under $XDG_CACHE_HOME/app (or
// ~/.cache/app).
func OpenReportCache(app string) (*ReportCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewReportCache(filepath.Join(base, app))
}

// NewReportCache uses dir as the cache root, creating it when needed.
func NewReportCache(dir string) (*ReportCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ReportCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *ReportCache) Dir() string { return c.dir }

// KeyFor derives the cache key of f analyzed under opts.
func KeyFor(f *source.File, opts Options) CacheKey {
	h := sha256.New()
	h.Write(f.Hash[:])
	var buf [10]byte
	binary.LittleEndian.PutUint16(buf[0:2], reportCacheSchemaVersion)
	binary.LittleEndian.PutUint64(buf[2:10], uint64(maxDepth(opts)))
	h.Write(buf[:])
	h.Write([]byte(opts.Undefined.String()))
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func maxDepth(opts Options) int {
	if opts.MaxCallDepth <= 0 {
		return flow.DefaultMaxCallDepth
	}
	return opts.MaxCallDepth
}

func (c *ReportCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "reports", hexKey[:2], hexKey+".mp")
}

// Put serializes rep and atomically replaces the entry for key.
func (c *ReportCache) Put(key CacheKey, rep *Report) (err error) {
	if c == nil || rep == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(&cachePayload{Schema: reportCacheSchemaVersion, Saved: time.Now().UTC(), Report: rep}); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the report stored for key. A missing entry or one written with
// another schema is a miss.
func (c *ReportCache) Get(key CacheKey) (*Report, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != reportCacheSchemaVersion || payload.Report == nil {
		return nil, false, nil
	}
	return payload.Report, true, nil
}

// DropAll removes every cached report.
func (c *ReportCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
