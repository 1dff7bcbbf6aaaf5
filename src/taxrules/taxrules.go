// Package taxrules encodes the holding-period rules for Indian mutual-fund
// capital gains. The rules change over time; keeping them in one place makes
// updates a one-line affair.
package taxrules

import (
	"fmt"
	"time"

	"github.com/username/fundfolio/backend/src/models"
)

// EquityLTCGThresholdDays is the equity long-term threshold: strictly more
// than one year of holding qualifies as long-term.
const EquityLTCGThresholdDays = 365

// DebtOldRegimeLTCGThresholdDays is the pre-reform debt long-term threshold
// (24 months; previously 36, lowered together with the regime change).
const DebtOldRegimeLTCGThresholdDays = 730

// DebtRegimeChangeDate is when debt funds lost indexed LTCG treatment. Units
// purchased on or after this date are always short-term, regardless of how
// long they are held.
var DebtRegimeChangeDate = time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)

// HoldingDays returns the whole number of days between purchase and sale.
func HoldingDays(buyDate, sellDate time.Time) int {
	return int(sellDate.Sub(buyDate).Hours() / 24)
}

// EquityTerm classifies an equity holding. Exactly 365 days is short-term;
// long-term requires strictly more.
func EquityTerm(holdingDays int) models.Term {
	if holdingDays > EquityLTCGThresholdDays {
		return models.TermLong
	}
	return models.TermShort
}

// DebtTerm classifies a debt holding.
//
// Purchases on or after DebtRegimeChangeDate are always short-term. Purchases
// before it are long-term only when held strictly more than 730 days; exactly
// 730 days is short-term.
func DebtTerm(buyDate, sellDate time.Time) models.Term {
	if !buyDate.Before(DebtRegimeChangeDate) {
		return models.TermShort
	}
	if HoldingDays(buyDate, sellDate) > DebtOldRegimeLTCGThresholdDays {
		return models.TermLong
	}
	return models.TermShort
}

// TermFor classifies a holding by fund type. Unknown funds use the debt rule,
// the conservative choice: gains are taxed as if debt unless proven equity.
func TermFor(fundType models.FundType, buyDate, sellDate time.Time, holdingDays int) models.Term {
	if fundType == models.FundTypeEquity {
		return EquityTerm(holdingDays)
	}
	return DebtTerm(buyDate, sellDate)
}

// FinancialYear returns the Indian financial year (April 1 to March 31) a
// date falls in, formatted like "2024-25". January through March belong to
// the year that started the previous April.
func FinancialYear(date time.Time) string {
	startYear := date.Year()
	if date.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}
