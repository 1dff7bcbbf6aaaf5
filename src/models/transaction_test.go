package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() RawTransactionRow {
	return RawTransactionRow{
		Date:   "2024-05-15",
		Ticker: "ICICI_NIFTY50",
		Folio:  "12345/67",
		NAV:    "70.2681",
		Units:  "142.297",
		Amount: "(9999.99)",
	}
}

func TestParseTransactionRow(t *testing.T) {
	t.Run("buy from positive units", func(t *testing.T) {
		tx, err := ParseTransactionRow(validRow())
		require.NoError(t, err)
		assert.Equal(t, SideBuy, tx.Side)
		assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), tx.Date)
		assert.Equal(t, "142.297", tx.Units.String())
		assert.Equal(t, "70.2681", tx.NAV.String())
		assert.Equal(t, "-9999.99", tx.Amount.String())
	})

	t.Run("sell from parenthesized units", func(t *testing.T) {
		row := validRow()
		row.Units = "(50.000)"
		row.Amount = "3500.00"
		tx, err := ParseTransactionRow(row)
		require.NoError(t, err)
		assert.Equal(t, SideSell, tx.Side)
		assert.True(t, tx.Units.IsPositive(), "units carry magnitude, not direction")
		assert.Equal(t, "50", tx.Units.String())
	})

	t.Run("sell from negative units", func(t *testing.T) {
		row := validRow()
		row.Units = "-50.000"
		tx, err := ParseTransactionRow(row)
		require.NoError(t, err)
		assert.Equal(t, SideSell, tx.Side)
		assert.Equal(t, "50", tx.Units.String())
	})

	t.Run("values are quantized at construction", func(t *testing.T) {
		row := validRow()
		row.Units = "10.00049"
		row.NAV = "70.26815"
		row.Amount = "702.685"
		tx, err := ParseTransactionRow(row)
		require.NoError(t, err)
		assert.Equal(t, "10", tx.Units.String())
		assert.Equal(t, "70.2682", tx.NAV.String())
		assert.Equal(t, "702.69", tx.Amount.String())
	})

	invalid := []struct {
		name   string
		mutate func(*RawTransactionRow)
	}{
		{"bad date", func(r *RawTransactionRow) { r.Date = "15-05-2024" }},
		{"missing ticker", func(r *RawTransactionRow) { r.Ticker = "  " }},
		{"bad nav", func(r *RawTransactionRow) { r.NAV = "n/a" }},
		{"zero nav", func(r *RawTransactionRow) { r.NAV = "0" }},
		{"negative nav", func(r *RawTransactionRow) { r.NAV = "-70.26" }},
		{"bad units", func(r *RawTransactionRow) { r.Units = "" }},
		{"bad amount", func(r *RawTransactionRow) { r.Amount = "(abc)" }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)
			_, err := ParseTransactionRow(row)
			assert.Error(t, err)
		})
	}
}

func TestDedupKey(t *testing.T) {
	tx1, err := ParseTransactionRow(validRow())
	require.NoError(t, err)
	tx2, err := ParseTransactionRow(validRow())
	require.NoError(t, err)
	assert.Equal(t, tx1.DedupKey(), tx2.DedupKey())

	row := validRow()
	row.Folio = "other-folio"
	tx3, err := ParseTransactionRow(row)
	require.NoError(t, err)
	assert.NotEqual(t, tx1.DedupKey(), tx3.DedupKey())
}
