package processors

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/fundfolio/backend/src/classifier"
	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
	"github.com/username/fundfolio/backend/src/taxrules"
	"github.com/username/fundfolio/backend/src/utils"
)

// GainsProcessor realizes capital gains from mutual-fund transactions using
// FIFO lot matching.
type GainsProcessor struct{}

func NewGainsProcessor() *GainsProcessor {
	return &GainsProcessor{}
}

// Process matches every sell against the oldest open buy lots of its
// (ticker, folio) bucket and emits one FIFOGain per (lot, sell) pairing.
//
// Buckets are processed in first-seen order and each bucket is sorted
// chronologically with a stable sort, so same-day transactions keep their
// feed order. Sell units with no lot left to match against are dropped with
// a warning; no gain is fabricated for them.
func (p *GainsProcessor) Process(transactions []models.Transaction, resolver classifier.Resolver) []models.FIFOGain {
	buckets, order := groupByTickerFolio(transactions)

	allGains := []models.FIFOGain{}

	for _, key := range order {
		bucketTxs := buckets[key]
		sort.SliceStable(bucketTxs, func(i, j int) bool {
			return bucketTxs[i].Date.Before(bucketTxs[j].Date)
		})

		var fifoQueue []*models.BuyLot

		for _, tx := range bucketTxs {
			switch tx.Side {
			case models.SideBuy:
				fifoQueue = append(fifoQueue, models.NewBuyLot(tx))

			case models.SideSell:
				unitsToMatch := tx.Units

				for unitsToMatch.IsPositive() && len(fifoQueue) > 0 {
					lot := fifoQueue[0]

					unitsMatched := models.RoundUnits(decimal.Min(unitsToMatch, lot.UnitsLeft))

					// A single sell consuming an entire original lot reports
					// the lot's recorded cost exactly, not units*nav, which
					// can differ by a cent after NAV quantization.
					var cost decimal.Decimal
					if unitsMatched.Equal(lot.UnitsLeft) && unitsMatched.Equal(lot.OriginalUnits) {
						cost = lot.OriginalTotalCost
					} else {
						cost = models.RoundMoney(unitsMatched.Mul(lot.CostPerUnit))
					}

					proceeds := models.RoundMoney(unitsMatched.Mul(tx.NAV))
					gain := models.RoundMoney(proceeds.Sub(cost))

					holdingDays := taxrules.HoldingDays(lot.Date, tx.Date)
					fundType := resolver.EffectiveType(tx.Ticker)
					term := taxrules.TermFor(fundType, lot.Date, tx.Date, holdingDays)

					allGains = append(allGains, models.FIFOGain{
						SellDate:          utils.FormatDate(tx.Date),
						Ticker:            tx.Ticker,
						Folio:             tx.Folio,
						Units:             unitsMatched,
						SellNAV:           tx.NAV,
						SaleConsideration: proceeds,
						BuyDate:           utils.FormatDate(lot.Date),
						BuyNAV:            lot.CostPerUnit,
						AcquisitionCost:   cost,
						Gain:              gain,
						HoldingDays:       holdingDays,
						FundType:          fundType,
						Term:              term,
						FinancialYear:     taxrules.FinancialYear(tx.Date),
					})

					unitsToMatch = models.RoundUnits(unitsToMatch.Sub(unitsMatched))
					lot.UnitsLeft = models.RoundUnits(lot.UnitsLeft.Sub(unitsMatched))

					if lot.UnitsLeft.Sign() <= 0 {
						fifoQueue = fifoQueue[1:]
					}
				}

				if unitsToMatch.IsPositive() {
					logger.Log().Warn("Oversell: sell units exceed open lots, remainder dropped",
						"ticker", tx.Ticker,
						"folio", tx.Folio,
						"sellDate", utils.FormatDate(tx.Date),
						"unmatchedUnits", unitsToMatch.String())
				}
			}
		}
	}

	return allGains
}

// groupByTickerFolio partitions transactions into (ticker, folio) buckets,
// preserving first-seen bucket order and feed order within each bucket.
func groupByTickerFolio(transactions []models.Transaction) (map[string][]models.Transaction, []string) {
	buckets := make(map[string][]models.Transaction)
	var order []string
	for _, tx := range transactions {
		key := tx.Ticker + "||" + tx.Folio
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], tx)
	}
	return buckets, order
}
