package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/username/fundfolio/backend/src/config"
	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
)

func (s *Store) gainsPath() string {
	return filepath.Join(s.cacheDir, config.FIFOCacheFileName)
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.cacheDir, config.FIFOMetadataFileName)
}

// IsCacheValid reports whether the cached gain list may be served. Validity
// is a pure fingerprint equality check: the file ids recorded at compute time
// must match the file ids present now. Any missing file or read error means
// invalid, never valid.
func (s *Store) IsCacheValid() bool {
	if _, err := os.Stat(s.gainsPath()); err != nil {
		return false
	}

	metadata, err := s.LoadCacheMetadata()
	if err != nil {
		logger.Log().Warn("Cache metadata unreadable, treating cache as invalid", "error", err)
		return false
	}

	return slices.Equal(metadata.ProcessedFileIDs, s.TransactionFileIDs())
}

// InvalidateCache deletes the cached gain list and its metadata. Idempotent;
// absence of either file is not an error.
func (s *Store) InvalidateCache() {
	for _, path := range []string{s.gainsPath(), s.metadataPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Log().Warn("Error removing cache file", "path", path, "error", err)
		}
	}
	logger.Log().Info("FIFO cache invalidated")
}

// SaveCachedGains persists a freshly computed gain list together with new
// metadata (current fingerprint, timestamp, count).
func (s *Store) SaveCachedGains(gains []models.FIFOGain) error {
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	gainsData, err := json.Marshal(gains)
	if err != nil {
		return fmt.Errorf("encoding gains for cache: %w", err)
	}
	if err := os.WriteFile(s.gainsPath(), gainsData, 0o644); err != nil {
		return fmt.Errorf("writing gains cache: %w", err)
	}

	metadata := models.CacheMetadata{
		LastComputed:     time.Now().Format(time.RFC3339),
		ProcessedFileIDs: s.TransactionFileIDs(),
		TotalGains:       len(gains),
	}
	metadataData, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(), metadataData, 0o644); err != nil {
		return fmt.Errorf("writing cache metadata: %w", err)
	}

	logger.Log().Info("FIFO gains cached", "records", len(gains))
	return nil
}

// LoadCachedGains reads the cached gain list. Callers treat any error as
// cache-invalid and recompute.
func (s *Store) LoadCachedGains() ([]models.FIFOGain, error) {
	data, err := os.ReadFile(s.gainsPath())
	if err != nil {
		return nil, fmt.Errorf("reading gains cache: %w", err)
	}
	var gains []models.FIFOGain
	if err := json.Unmarshal(data, &gains); err != nil {
		return nil, fmt.Errorf("decoding gains cache: %w", err)
	}
	return gains, nil
}

// LoadCacheMetadata reads the cache metadata, for validity checks and
// observability.
func (s *Store) LoadCacheMetadata() (models.CacheMetadata, error) {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		return models.CacheMetadata{}, fmt.Errorf("reading cache metadata: %w", err)
	}
	var metadata models.CacheMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return models.CacheMetadata{}, fmt.Errorf("decoding cache metadata: %w", err)
	}
	return metadata, nil
}
