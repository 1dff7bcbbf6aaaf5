package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/fundfolio/backend/src/utils"
)

// Side is the direction of a transaction. The units magnitude is always
// non-negative; direction is carried here, never in the sign of Units.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// RawTransactionRow is one row of a transaction feed document, exactly as the
// upstream extractor recorded it. All values are strings; parsing and
// validation happen in ParseTransactionRow.
type RawTransactionRow struct {
	Date   string `json:"date"`
	Ticker string `json:"ticker"`
	Folio  string `json:"folio"`
	NAV    string `json:"nav"`
	Units  string `json:"units"`  // parenthesized or negative magnitude = sell
	Amount string `json:"amount"` // parenthesized or negative = outflow
}

// TransactionFeed is the on-disk shape of a transaction source file.
type TransactionFeed struct {
	Transactions []RawTransactionRow `json:"transactions"`
}

// Transaction is one validated buy or sell event. Constructed once from a raw
// row, immutable thereafter.
type Transaction struct {
	Date   time.Time
	Ticker string
	Folio  string
	Side   Side
	NAV    decimal.Decimal // 4dp, > 0
	Units  decimal.Decimal // 3dp, non-negative magnitude
	Amount decimal.Decimal // 2dp, signed as recorded by the source
}

// ParseTransactionRow validates and converts a raw feed row. Each field
// failure is an explicit error so callers can skip the row with a warning
// rather than abort the load.
func ParseTransactionRow(row RawTransactionRow) (Transaction, error) {
	date, err := utils.ParseDate(strings.TrimSpace(row.Date))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid date: %w", err)
	}

	ticker := strings.TrimSpace(row.Ticker)
	if ticker == "" {
		return Transaction{}, fmt.Errorf("missing ticker")
	}
	folio := strings.TrimSpace(row.Folio)

	nav, err := ParseDecimal(row.NAV)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid nav: %w", err)
	}
	if !nav.IsPositive() {
		return Transaction{}, fmt.Errorf("nav must be positive, got %s", nav)
	}

	units, err := ParseDecimal(row.Units)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid units: %w", err)
	}
	side := SideBuy
	if units.IsNegative() {
		side = SideSell
		units = units.Abs()
	}

	amount, err := ParseDecimal(row.Amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	return Transaction{
		Date:   date,
		Ticker: ticker,
		Folio:  folio,
		Side:   side,
		NAV:    RoundNav(nav),
		Units:  RoundUnits(units),
		Amount: RoundMoney(amount),
	}, nil
}

// DedupKey identifies a transaction for deduplication across feed files. Two
// rows agreeing on all five fields are the same statement line uploaded twice.
func (t Transaction) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		utils.FormatDate(t.Date), t.Ticker, t.Folio, t.Units.String(), t.NAV.String())
}
