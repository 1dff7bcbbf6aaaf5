package services

import (
	"github.com/username/fundfolio/backend/src/models"
)

// CapitalGainsService defines the interface for the core gains pipeline.
type CapitalGainsService interface {
	// GetCapitalGains returns the realized gain list, recomputing when the
	// cache is invalid or forceRecalculate is set.
	GetCapitalGains(forceRecalculate bool) ([]models.FIFOGain, error)
	// SaveFundTypeOverride persists one manual override and invalidates the cache.
	SaveFundTypeOverride(ticker string, fundType models.FundType) error
	// SaveFundTypeOverridesBatch persists several overrides atomically and
	// invalidates the cache.
	SaveFundTypeOverridesBatch(overrides map[string]models.FundType) error
	// GetFundTypeOverrides returns the stored overrides.
	GetFundTypeOverrides() (map[string]models.FundType, error)
	// GetCacheMetadata exposes the cache fingerprint, timestamp and count.
	GetCacheMetadata() (models.CacheMetadata, error)
	// GetLastUpdated returns the newest feed-file modification time (display
	// and ETag use only).
	GetLastUpdated() string
}
