// Package classifier decides whether a mutual fund gets equity or debt tax
// treatment, from a market-cap reference dataset plus manual overrides.
package classifier

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
)

// EquityPercentageThreshold is the minimum equity exposure (inclusive) for a
// fund to be taxed as equity.
var EquityPercentageThreshold = decimal.NewFromInt(65)

// ParsePercentage parses a percentage string like "68.73%" or "0%".
// Empty or unparseable values default to zero.
func ParsePercentage(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ClassifyFundType classifies a fund from its market-cap split.
//
// Arbitrage funds ("arbi" in the ticker) get equity treatment regardless of
// portfolio composition. If all four fields are empty there is no data and
// the fund is unknown. Otherwise the summed equity exposure decides: >= 65%
// is equity, anything below (including an explicit 0%) is debt.
func ClassifyFundType(ticker, largeCap, midCap, smallCap, otherCap string) models.FundType {
	if strings.Contains(strings.ToLower(ticker), "arbi") {
		return models.FundTypeEquity
	}

	allEmpty := true
	for _, cap := range []string{largeCap, midCap, smallCap, otherCap} {
		if strings.TrimSpace(cap) != "" {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return models.FundTypeUnknown
	}

	equityPct := ParsePercentage(largeCap).
		Add(ParsePercentage(midCap)).
		Add(ParsePercentage(smallCap)).
		Add(ParsePercentage(otherCap))

	if equityPct.GreaterThanOrEqual(EquityPercentageThreshold) {
		return models.FundTypeEquity
	}
	return models.FundTypeDebt
}

// referenceRow mirrors one entry of the market-cap reference dataset.
type referenceRow struct {
	Ticker   string `json:"Ticker"`
	LargeCap string `json:"Large Cap"`
	MidCap   string `json:"Mid Cap"`
	SmallCap string `json:"Small Cap"`
	OtherCap string `json:"Other Cap"`
}

// FundTypeTable is an immutable ticker-to-type mapping built once at startup
// and injected wherever classification is needed.
type FundTypeTable struct {
	types map[string]models.FundType
}

// NewFundTypeTable builds a table from an explicit mapping. Intended for
// tests and for callers that source classification elsewhere.
func NewFundTypeTable(types map[string]models.FundType) *FundTypeTable {
	copied := make(map[string]models.FundType, len(types))
	for ticker, fundType := range types {
		copied[ticker] = fundType
	}
	return &FundTypeTable{types: copied}
}

// LoadFundTypeTable reads the market-cap reference dataset and classifies
// every ticker in it. A missing or unreadable dataset is not fatal: the
// classifier degrades to unknown for every ticker not covered by an override.
func LoadFundTypeTable(path string) *FundTypeTable {
	table := &FundTypeTable{types: make(map[string]models.FundType)}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Log().Warn("Market cap reference dataset not available, all tickers classify as unknown", "path", path, "error", err)
		return table
	}

	var rows []referenceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		logger.Log().Warn("Market cap reference dataset unparseable, all tickers classify as unknown", "path", path, "error", err)
		return table
	}

	for _, row := range rows {
		ticker := strings.TrimSpace(row.Ticker)
		if ticker == "" {
			continue
		}
		table.types[ticker] = ClassifyFundType(ticker, row.LargeCap, row.MidCap, row.SmallCap, row.OtherCap)
	}

	logger.Log().Info("Market cap reference dataset loaded", "path", path, "tickers", len(table.types))
	return table
}

// Lookup returns the reference classification for a ticker, or unknown.
func (t *FundTypeTable) Lookup(ticker string) models.FundType {
	if fundType, ok := t.types[ticker]; ok {
		return fundType
	}
	return models.FundTypeUnknown
}

// Len reports how many tickers the table covers.
func (t *FundTypeTable) Len() int { return len(t.types) }

// Resolver resolves a ticker's effective fund type: manual overrides take
// precedence over the reference table.
type Resolver struct {
	table     *FundTypeTable
	overrides map[string]models.FundType
}

// NewResolver pairs a reference table with a set of manual overrides.
func NewResolver(table *FundTypeTable, overrides map[string]models.FundType) Resolver {
	return Resolver{table: table, overrides: overrides}
}

// EffectiveType returns the fund type to use for tax classification.
func (r Resolver) EffectiveType(ticker string) models.FundType {
	if fundType, ok := r.overrides[ticker]; ok {
		return fundType
	}
	return r.table.Lookup(ticker)
}
