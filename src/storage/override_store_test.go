package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/fundfolio/backend/src/models"
	_ "modernc.org/sqlite"
)

func newTestOverrideStore(t *testing.T) *OverrideStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS fund_type_overrides (
		ticker TEXT PRIMARY KEY,
		fund_type TEXT NOT NULL CHECK (fund_type IN ('equity', 'debt')),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`)
	require.NoError(t, err)
	return NewOverrideStore(db)
}

func TestOverrideStoreSaveAndLoad(t *testing.T) {
	store := newTestOverrideStore(t)

	require.NoError(t, store.Save("FUND_A", models.FundTypeEquity))
	require.NoError(t, store.Save("FUND_B", models.FundTypeDebt))

	overrides, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]models.FundType{
		"FUND_A": models.FundTypeEquity,
		"FUND_B": models.FundTypeDebt,
	}, overrides)
}

func TestOverrideStoreLastWriteWins(t *testing.T) {
	store := newTestOverrideStore(t)

	require.NoError(t, store.Save("FUND_A", models.FundTypeDebt))
	require.NoError(t, store.Save("FUND_A", models.FundTypeEquity))

	overrides, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.FundTypeEquity, overrides["FUND_A"])
	assert.Len(t, overrides, 1)
}

func TestOverrideStoreRejectsInvalidValues(t *testing.T) {
	store := newTestOverrideStore(t)

	assert.ErrorIs(t, store.Save("FUND_A", models.FundTypeUnknown), ErrInvalidFundType)
	assert.ErrorIs(t, store.Save("FUND_A", models.FundType("hybrid")), ErrInvalidFundType)
	assert.Error(t, store.Save("  ", models.FundTypeEquity))

	overrides, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, overrides, "rejected writes mutate nothing")
}

func TestOverrideStoreBatch(t *testing.T) {
	store := newTestOverrideStore(t)

	t.Run("valid batch persists all entries", func(t *testing.T) {
		err := store.SaveBatch(map[string]models.FundType{
			"FUND_A": models.FundTypeEquity,
			"FUND_B": models.FundTypeDebt,
		})
		require.NoError(t, err)

		overrides, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, overrides, 2)
	})

	t.Run("one bad entry rejects the whole batch", func(t *testing.T) {
		err := store.SaveBatch(map[string]models.FundType{
			"FUND_C": models.FundTypeEquity,
			"FUND_D": models.FundTypeUnknown,
		})
		assert.ErrorIs(t, err, ErrInvalidFundType)

		overrides, loadErr := store.Load()
		require.NoError(t, loadErr)
		assert.NotContains(t, overrides, "FUND_C", "no writes from a rejected batch")
	})
}
