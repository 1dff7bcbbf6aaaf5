package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/fundfolio/backend/src/classifier"
	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
	"github.com/username/fundfolio/backend/src/processors"
	"github.com/username/fundfolio/backend/src/storage"
)

const (
	// In-memory layer over the file cache, so repeated reads within a few
	// minutes skip the JSON decode. Invalidated together with the file cache.
	ckFIFOGains = "res_fifo_gains"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type capitalGainsServiceImpl struct {
	store          *storage.Store
	overrideStore  *storage.OverrideStore
	fundTypeTable  *classifier.FundTypeTable
	gainsProcessor *processors.GainsProcessor
	resultCache    *cache.Cache
}

func NewCapitalGainsService(
	store *storage.Store,
	overrideStore *storage.OverrideStore,
	fundTypeTable *classifier.FundTypeTable,
	gainsProcessor *processors.GainsProcessor,
	resultCache *cache.Cache,
) CapitalGainsService {
	return &capitalGainsServiceImpl{
		store:          store,
		overrideStore:  overrideStore,
		fundTypeTable:  fundTypeTable,
		gainsProcessor: gainsProcessor,
		resultCache:    resultCache,
	}
}

func (s *capitalGainsServiceImpl) GetCapitalGains(forceRecalculate bool) ([]models.FIFOGain, error) {
	if forceRecalculate {
		logger.Log().Info("Force recalculation requested, invalidating cache")
		s.invalidate()
		return s.recalculateAndCache()
	}

	if !s.store.IsCacheValid() {
		logger.Log().Info("FIFO cache invalid, recalculating")
		s.resultCache.Delete(ckFIFOGains)
		return s.recalculateAndCache()
	}

	if cached, found := s.resultCache.Get(ckFIFOGains); found {
		return cached.([]models.FIFOGain), nil
	}

	gains, err := s.store.LoadCachedGains()
	if err != nil {
		// Corrupt or schema-mismatched cache heals itself via recompute.
		logger.Log().Warn("Cached gains unreadable, recalculating", "error", err)
		s.invalidate()
		return s.recalculateAndCache()
	}

	s.resultCache.Set(ckFIFOGains, gains, DefaultCacheExpiration)
	return gains, nil
}

// recalculateAndCache runs the full pipeline: load transactions, load
// overrides, classify, match, persist. Always a complete recomputation;
// there is no incremental path.
func (s *capitalGainsServiceImpl) recalculateAndCache() ([]models.FIFOGain, error) {
	startTime := time.Now()

	transactions := s.store.LoadTransactions()
	if len(transactions) == 0 {
		logger.Log().Warn("No transactions found, returning empty gain list")
		return []models.FIFOGain{}, nil
	}

	overrides, err := s.overrideStore.Load()
	if err != nil {
		logger.Log().Warn("Could not load fund type overrides, proceeding without", "error", err)
		overrides = map[string]models.FundType{}
	}

	resolver := classifier.NewResolver(s.fundTypeTable, overrides)
	gains := s.gainsProcessor.Process(transactions, resolver)

	if err := s.store.SaveCachedGains(gains); err != nil {
		return nil, fmt.Errorf("caching recalculated gains: %w", err)
	}
	s.resultCache.Set(ckFIFOGains, gains, DefaultCacheExpiration)

	logger.Log().Info("FIFO gains recalculated",
		"transactions", len(transactions),
		"gains", len(gains),
		"duration", time.Since(startTime))
	return gains, nil
}

func (s *capitalGainsServiceImpl) invalidate() {
	s.store.InvalidateCache()
	s.resultCache.Delete(ckFIFOGains)
}

func (s *capitalGainsServiceImpl) SaveFundTypeOverride(ticker string, fundType models.FundType) error {
	if err := s.overrideStore.Save(ticker, fundType); err != nil {
		return err
	}
	// Any override write changes classification, so cached gains are stale.
	s.invalidate()
	logger.Log().Info("Fund type override saved", "ticker", ticker, "fundType", fundType)
	return nil
}

func (s *capitalGainsServiceImpl) SaveFundTypeOverridesBatch(overrides map[string]models.FundType) error {
	if err := s.overrideStore.SaveBatch(overrides); err != nil {
		return err
	}
	s.invalidate()
	logger.Log().Info("Fund type overrides saved", "count", len(overrides))
	return nil
}

func (s *capitalGainsServiceImpl) GetFundTypeOverrides() (map[string]models.FundType, error) {
	return s.overrideStore.Load()
}

func (s *capitalGainsServiceImpl) GetCacheMetadata() (models.CacheMetadata, error) {
	return s.store.LoadCacheMetadata()
}

func (s *capitalGainsServiceImpl) GetLastUpdated() string {
	return s.store.LastUpdated()
}
