package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundType is the tax classification of a fund.
type FundType string

const (
	FundTypeEquity  FundType = "equity"
	FundTypeDebt    FundType = "debt"
	FundTypeUnknown FundType = "unknown"
)

// Term is the capital-gains holding classification.
type Term string

const (
	TermShort Term = "Short-term"
	TermLong  Term = "Long-term"
)

// BuyLot is an open, partially-or-fully-unconsumed purchase in a FIFO queue.
// UnitsLeft is decremented in place as sells consume it; everything else is
// fixed at construction.
type BuyLot struct {
	Date              time.Time
	UnitsLeft         decimal.Decimal
	CostPerUnit       decimal.Decimal // 4dp
	OriginalUnits     decimal.Decimal
	OriginalTotalCost decimal.Decimal // 2dp, the recorded transaction amount
}

// NewBuyLot opens a lot from a buy transaction. The total cost is the
// recorded amount, not units*nav, so a lot consumed in one shot reports its
// exact source cost with no rounding drift.
func NewBuyLot(tx Transaction) *BuyLot {
	return &BuyLot{
		Date:              tx.Date,
		UnitsLeft:         tx.Units,
		CostPerUnit:       tx.NAV,
		OriginalUnits:     tx.Units,
		OriginalTotalCost: RoundMoney(tx.Amount.Abs()),
	}
}

// FIFOGain is one realized-gain record, one per (lot fragment, sell) pairing.
// Immutable once emitted; serialized wholesale into the cache.
type FIFOGain struct {
	SellDate          string          `json:"sell_date"`
	Ticker            string          `json:"ticker"`
	Folio             string          `json:"folio"`
	Units             decimal.Decimal `json:"units"`
	SellNAV           decimal.Decimal `json:"sell_nav"`
	SaleConsideration decimal.Decimal `json:"sale_consideration"`
	BuyDate           string          `json:"buy_date"`
	BuyNAV            decimal.Decimal `json:"buy_nav"`
	AcquisitionCost   decimal.Decimal `json:"acquisition_cost"`
	Gain              decimal.Decimal `json:"gain"`
	HoldingDays       int             `json:"holding_days"`
	FundType          FundType        `json:"fund_type"`
	Term              Term            `json:"term"`
	FinancialYear     string          `json:"financial_year"`
}

// CacheMetadata describes a cached gain list, used solely for validity
// comparison and observability, never for data reconstruction.
type CacheMetadata struct {
	LastComputed     string   `json:"last_computed"`
	ProcessedFileIDs []string `json:"processed_file_ids"`
	TotalGains       int      `json:"total_gains"`
}
