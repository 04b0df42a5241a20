// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     catalog
// Description: Fingerprinted on-disk cache of parsed catalogs
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package catalog

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atistler/arcus/pkg/core/cache"
	"github.com/atistler/arcus/pkg/core/logging"
)

// Fingerprint returns the lowercase hex MD5 of a catalog document
func Fingerprint(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Cache keeps two sidecar files per catalog: .<base>.md5 holding the
// fingerprint and .<base>.cache holding the parsed commands. A cache entry is
// only used when both fingerprints equal the current document's.
//
// Parsed catalogs are also kept in memory, keyed by path and fingerprint, so
// repeated loads of an unchanged catalog skip the sidecar files.
//
// Concurrent writers are not coordinated. Writes go through a temp file and
// rename so readers never see partial content.
type Cache struct {
	dir    string
	logger *logging.Logger
	memo   *cache.Cache[string, []Command]
}

// NewCache creates a cache rooted at dir. An empty dir means the user's home
// directory.
func NewCache(dir string, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cache{
		dir:    dir,
		logger: logger.WithField("component", "catalog-cache"),
		memo:   cache.New[string, []Command](cache.DefaultConfig()),
	}
}

// Dir returns the directory holding the sidecar files
func (c *Cache) Dir() (string, error) {
	if c.dir != "" {
		return c.dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}

// Paths returns the fingerprint and cache sidecar paths for a catalog
func (c *Cache) Paths(catalogPath string) (md5File, cacheFile string, err error) {
	dir, err := c.Dir()
	if err != nil {
		return "", "", err
	}
	base := filepath.Base(catalogPath)
	return filepath.Join(dir, "."+base+".md5"), filepath.Join(dir, "."+base+".cache"), nil
}

// Load returns the parsed catalog at path, from the cache when the stored
// fingerprint matches and from a fresh parse otherwise. A fresh parse
// overwrites both sidecars.
func (c *Cache) Load(path string) (*Catalog, error) {
	data, err := readCatalog(path)
	if err != nil {
		return nil, err
	}
	fingerprint := Fingerprint(data)
	memoKey := path + "\x00" + fingerprint
	if commands, ok := c.memo.Get(memoKey); ok {
		c.restoreSidecars(path, fingerprint, commands)
		return &Catalog{
			Source:      path,
			Fingerprint: fingerprint,
			Commands:    commands,
			FromCache:   true,
		}, nil
	}

	md5File, cacheFile, pathErr := c.Paths(path)
	if pathErr != nil {
		c.logger.Warn("Catalog cache unavailable", "error", pathErr)
	} else if commands, ok := c.lookup(md5File, cacheFile, fingerprint); ok {
		c.logger.Debug("Catalog cache hit", "catalog", path, "commands", len(commands))
		c.memo.Set(memoKey, commands)
		return &Catalog{
			Source:      path,
			Fingerprint: fingerprint,
			Commands:    commands,
			FromCache:   true,
		}, nil
	}

	commands, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Catalog parsed", "catalog", path, "commands", len(commands))
	c.memo.Set(memoKey, commands)

	if pathErr == nil {
		if err := c.store(md5File, cacheFile, fingerprint, commands); err != nil {
			c.logger.Warn("Failed to write catalog cache", "catalog", path, "error", err)
		}
	}

	return &Catalog{
		Source:      path,
		Fingerprint: fingerprint,
		Commands:    commands,
	}, nil
}

// Stats reports hits and misses of the in-memory catalog store
func (c *Cache) Stats() cache.Stats {
	return c.memo.Stats()
}

// restoreSidecars rewrites the sidecars of a catalog served from memory when
// they were removed or replaced behind the cache's back
func (c *Cache) restoreSidecars(path, fingerprint string, commands []Command) {
	md5File, cacheFile, err := c.Paths(path)
	if err != nil {
		return
	}
	stored, err := os.ReadFile(md5File)
	if err == nil && string(bytes.TrimSpace(stored)) == fingerprint {
		if _, err := os.Stat(cacheFile); err == nil {
			return
		}
	}
	if err := c.store(md5File, cacheFile, fingerprint, commands); err != nil {
		c.logger.Warn("Failed to write catalog cache", "catalog", path, "error", err)
	}
}

// Invalidate removes both sidecars of a catalog and forgets every parsed
// catalog held in memory. Missing files are ignored.
func (c *Cache) Invalidate(path string) error {
	c.memo.Clear()

	md5File, cacheFile, err := c.Paths(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range []string{md5File, cacheFile} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cache) lookup(md5File, cacheFile, fingerprint string) ([]Command, bool) {
	stored, err := os.ReadFile(md5File)
	if err != nil || string(bytes.TrimSpace(stored)) != fingerprint {
		return nil, false
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, false
	}
	entry, err := decodeEntry(data)
	if err != nil {
		c.logger.Warn("Ignoring unreadable catalog cache", "file", cacheFile, "error", err)
		return nil, false
	}
	if entry.Fingerprint != fingerprint {
		return nil, false
	}
	return entry.Commands, true
}

// store writes the cache file before the fingerprint so an interrupted write
// leaves a mismatch rather than a stale match.
func (c *Cache) store(md5File, cacheFile, fingerprint string, commands []Command) error {
	data, err := encodeEntry(cacheEntry{
		Version:     cacheVersion,
		Fingerprint: fingerprint,
		Commands:    commands,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := writeAtomic(cacheFile, data); err != nil {
		return err
	}
	return writeAtomic(md5File, []byte(fingerprint))
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
