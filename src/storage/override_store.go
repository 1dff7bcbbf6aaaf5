package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/username/fundfolio/backend/src/models"
)

// ErrInvalidFundType is returned when an override value is anything other
// than "equity" or "debt". Overrides are explicit by definition; "unknown"
// is rejected too.
var ErrInvalidFundType = errors.New(`fund type must be "equity" or "debt"`)

// OverrideStore persists manual fund-type overrides, keyed by ticker,
// last-write-wins.
type OverrideStore struct {
	db *sql.DB
}

func NewOverrideStore(db *sql.DB) *OverrideStore {
	return &OverrideStore{db: db}
}

func validateOverride(ticker string, fundType models.FundType) error {
	if strings.TrimSpace(ticker) == "" {
		return fmt.Errorf("ticker is required")
	}
	if fundType != models.FundTypeEquity && fundType != models.FundTypeDebt {
		return fmt.Errorf("%w: got %q", ErrInvalidFundType, fundType)
	}
	return nil
}

// Load returns all stored overrides.
func (s *OverrideStore) Load() (map[string]models.FundType, error) {
	rows, err := s.db.Query(`SELECT ticker, fund_type FROM fund_type_overrides`)
	if err != nil {
		return nil, fmt.Errorf("querying fund type overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]models.FundType)
	for rows.Next() {
		var ticker, fundType string
		if err := rows.Scan(&ticker, &fundType); err != nil {
			return nil, fmt.Errorf("scanning fund type override: %w", err)
		}
		overrides[ticker] = models.FundType(fundType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fund type overrides: %w", err)
	}
	return overrides, nil
}

// Save upserts a single override. The value is validated before any state
// changes; an invalid value mutates nothing.
func (s *OverrideStore) Save(ticker string, fundType models.FundType) error {
	if err := validateOverride(ticker, fundType); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO fund_type_overrides (ticker, fund_type, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(ticker) DO UPDATE SET fund_type = excluded.fund_type, updated_at = CURRENT_TIMESTAMP`,
		strings.TrimSpace(ticker), string(fundType))
	if err != nil {
		return fmt.Errorf("saving fund type override for %s: %w", ticker, err)
	}
	return nil
}

// SaveBatch upserts several overrides in one transaction. Every entry is
// validated up front; one bad value rejects the whole batch with no writes.
func (s *OverrideStore) SaveBatch(overrides map[string]models.FundType) error {
	for ticker, fundType := range overrides {
		if err := validateOverride(ticker, fundType); err != nil {
			return fmt.Errorf("override for %s: %w", ticker, err)
		}
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning override batch: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`
		INSERT INTO fund_type_overrides (ticker, fund_type, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(ticker) DO UPDATE SET fund_type = excluded.fund_type, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("preparing override upsert: %w", err)
	}
	defer stmt.Close()

	for ticker, fundType := range overrides {
		if _, err := stmt.Exec(strings.TrimSpace(ticker), string(fundType)); err != nil {
			return fmt.Errorf("saving fund type override for %s: %w", ticker, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing override batch: %w", err)
	}
	return nil
}
