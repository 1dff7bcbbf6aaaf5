// Package storage owns everything on disk: transaction feed files, the FIFO
// gains cache and its metadata, and the fund-type override table.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
)

const (
	feedFilePrefix = "transactions_"
	feedFileSuffix = ".json"
)

// Store reads transaction feed files from a data directory and maintains the
// gains cache in a cache directory.
type Store struct {
	dataDir  string
	cacheDir string
}

func NewStore(dataDir, cacheDir string) *Store {
	return &Store{dataDir: dataDir, cacheDir: cacheDir}
}

// feedFileID extracts the file id from a feed file name, e.g.
// "transactions_b720420e.json" -> "b720420e".
func feedFileID(name string) (string, bool) {
	if !strings.HasPrefix(name, feedFilePrefix) || !strings.HasSuffix(name, feedFileSuffix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, feedFilePrefix), feedFileSuffix), true
}

// feedFilePaths lists every feed file under the data directory, one level
// deep, skipping the cache directory. os.ReadDir sorts by name, so the order
// is deterministic across runs.
func (s *Store) feedFilePaths() []string {
	var paths []string

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return paths
	}

	cacheDir := filepath.Clean(s.cacheDir)
	for _, entry := range entries {
		path := filepath.Join(s.dataDir, entry.Name())
		if entry.IsDir() {
			if filepath.Clean(path) == cacheDir {
				continue
			}
			subEntries, err := os.ReadDir(path)
			if err != nil {
				continue
			}
			for _, sub := range subEntries {
				if _, ok := feedFileID(sub.Name()); ok && !sub.IsDir() {
					paths = append(paths, filepath.Join(path, sub.Name()))
				}
			}
			continue
		}
		if _, ok := feedFileID(entry.Name()); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// TransactionFileIDs returns the sorted ids of all feed files currently
// present. This is the cache fingerprint: validity is decided by comparing
// this list, nothing else.
func (s *Store) TransactionFileIDs() []string {
	ids := []string{}
	for _, path := range s.feedFilePaths() {
		if id, ok := feedFileID(filepath.Base(path)); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// LoadTransactions loads every feed file, skipping malformed rows with a
// warning and deduplicating on (date, ticker, folio, units, nav) so the same
// statement uploaded twice counts once. The result is sorted by date with a
// stable sort, preserving feed order for same-day transactions.
func (s *Store) LoadTransactions() []models.Transaction {
	var all []models.Transaction
	seen := make(map[string]struct{})

	for _, path := range s.feedFilePaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Log().Warn("Could not read transaction feed file, skipping", "path", path, "error", err)
			continue
		}

		var feed models.TransactionFeed
		if err := json.Unmarshal(data, &feed); err != nil {
			logger.Log().Warn("Invalid JSON in transaction feed file, skipping", "path", path, "error", err)
			continue
		}

		for i, row := range feed.Transactions {
			tx, err := models.ParseTransactionRow(row)
			if err != nil {
				logger.Log().Warn("Malformed transaction row skipped", "path", path, "row", i, "error", err)
				continue
			}
			key := tx.DedupKey()
			if _, dup := seen[key]; dup {
				logger.Log().Debug("Duplicate transaction skipped", "key", key)
				continue
			}
			seen[key] = struct{}{}
			all = append(all, tx)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	logger.Log().Info("Transactions loaded", "count", len(all), "files", len(s.feedFilePaths()))
	return all
}

// SaveFeed persists an uploaded transaction feed as a new source file and
// returns its id. The new file changes the fingerprint, so the next gains
// read recomputes.
func (s *Store) SaveFeed(feed models.TransactionFeed) (string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	path := filepath.Join(s.dataDir, feedFilePrefix+id+feedFileSuffix)

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding transaction feed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing transaction feed file: %w", err)
	}

	logger.Log().Info("Transaction feed saved", "fileID", id, "rows", len(feed.Transactions))
	return id, nil
}

// LastUpdated returns the most recent modification time among feed files, for
// display and ETag purposes only; cache validity never looks at timestamps.
func (s *Store) LastUpdated() string {
	var latest time.Time
	for _, path := range s.feedFilePaths() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	if latest.IsZero() {
		latest = time.Now()
	}
	return latest.Format(time.RFC3339)
}
