package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/fundfolio/backend/src/models"
)

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"68.73%", "68.73"},
		{"0%", "0"},
		{"42.5", "42.5"},
		{" 12.25% ", "12.25"},
		{"", "0"},
		{"   ", "0"},
		{"n/a", "0"},
	}
	for _, tt := range tests {
		got := ParsePercentage(tt.in)
		assert.Equal(t, tt.want, got.String(), "input %q", tt.in)
	}
}

func TestClassifyFundType(t *testing.T) {
	tests := []struct {
		name                                 string
		ticker                               string
		largeCap, midCap, smallCap, otherCap string
		want                                 models.FundType
	}{
		{"threshold met exactly", "HDFC_TOP100", "40%", "15%", "5%", "5%", models.FundTypeEquity},
		{"just below threshold", "HYBRID_FUND", "40%", "14.99%", "5%", "5%", models.FundTypeDebt},
		{"well above threshold", "NIFTY_INDEX", "80.5%", "10%", "5%", "2%", models.FundTypeEquity},
		{"zero equity exposure is debt not unknown", "LIQUID_FUND", "0%", "0%", "0%", "0%", models.FundTypeDebt},
		{"no data at all", "MYSTERY_FUND", "", "", "", "", models.FundTypeUnknown},
		{"arbitrage fund overrides composition", "KOTAK_ARBITRAGE", "0%", "0%", "0%", "0%", models.FundTypeEquity},
		{"arbitrage match is case-insensitive", "kotak_ArBi_fund", "", "", "", "", models.FundTypeEquity},
		{"partial data still classifies", "SOME_FUND", "66%", "", "", "", models.FundTypeEquity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFundType(tt.ticker, tt.largeCap, tt.midCap, tt.smallCap, tt.otherCap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFundTypeTable(t *testing.T) {
	t.Run("missing dataset degrades to empty table", func(t *testing.T) {
		table := LoadFundTypeTable(filepath.Join(t.TempDir(), "nope.json"))
		assert.Equal(t, 0, table.Len())
		assert.Equal(t, models.FundTypeUnknown, table.Lookup("ANY"))
	})

	t.Run("dataset rows are classified", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "marketCapInfo.json")
		data := `[
			{"Ticker": "NIFTY_INDEX", "Large Cap": "80%", "Mid Cap": "10%", "Small Cap": "5%", "Other Cap": "2%"},
			{"Ticker": "LIQUID_FUND", "Large Cap": "0%", "Mid Cap": "0%", "Small Cap": "0%", "Other Cap": "0%"},
			{"Ticker": "NO_DATA_FUND", "Large Cap": "", "Mid Cap": "", "Small Cap": "", "Other Cap": ""},
			{"Ticker": "", "Large Cap": "50%", "Mid Cap": "50%", "Small Cap": "", "Other Cap": ""}
		]`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		table := LoadFundTypeTable(path)
		assert.Equal(t, 3, table.Len(), "blank ticker rows are dropped")
		assert.Equal(t, models.FundTypeEquity, table.Lookup("NIFTY_INDEX"))
		assert.Equal(t, models.FundTypeDebt, table.Lookup("LIQUID_FUND"))
		assert.Equal(t, models.FundTypeUnknown, table.Lookup("NO_DATA_FUND"))
		assert.Equal(t, models.FundTypeUnknown, table.Lookup("NOT_IN_TABLE"))
	})

	t.Run("unparseable dataset degrades to empty table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		table := LoadFundTypeTable(path)
		assert.Equal(t, 0, table.Len())
	})
}

func TestResolverPrecedence(t *testing.T) {
	table := NewFundTypeTable(map[string]models.FundType{
		"FUND_A": models.FundTypeDebt,
		"FUND_B": models.FundTypeEquity,
	})

	t.Run("override wins over reference table", func(t *testing.T) {
		r := NewResolver(table, map[string]models.FundType{"FUND_A": models.FundTypeEquity})
		assert.Equal(t, models.FundTypeEquity, r.EffectiveType("FUND_A"))
		assert.Equal(t, models.FundTypeEquity, r.EffectiveType("FUND_B"))
	})

	t.Run("table fallback then unknown", func(t *testing.T) {
		r := NewResolver(table, nil)
		assert.Equal(t, models.FundTypeDebt, r.EffectiveType("FUND_A"))
		assert.Equal(t, models.FundTypeUnknown, r.EffectiveType("ELSEWHERE"))
	})
}
