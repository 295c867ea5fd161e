package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `🚨CHART ANALYSIS🚨
🚨Signal: BUY on XAUUSD🚨
💰Entry: 2650.00
🚫SL: 2640.00
🎯TP1: 2660
🎯TP2: 2670
🎯TP3: 2680
✅Probability: 78%
📊Context: Bullish BOS on M15 with unmitigated order block below entry.`

func TestParseWellFormed(t *testing.T) {
	levels, err := Parse(wellFormed)
	require.NoError(t, err)

	assert.Equal(t, DirectionBuy, levels.Direction)
	assert.Equal(t, 2650.00, levels.Entry)
	assert.Equal(t, 2640.00, levels.Stop)
	assert.Equal(t, 2660.0, levels.TP1)
	assert.Equal(t, 2670.0, levels.TP2)
	assert.Equal(t, 2680.0, levels.TP3)
}

func TestParseMissingFields(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"missing stop", "🚨Signal: BUY on XAUUSD🚨\n💰Entry: 2650\n🎯TP1: 2660\n🎯TP2: 2670\n🎯TP3: 2680"},
		{"missing entry", "🚨Signal: SELL on US30🚨\n🚫SL: 42100\n🎯TP1: 41800\n🎯TP2: 41700\n🎯TP3: 41600"},
		{"missing tp3", "💰Entry: 2650\n🚫SL: 2640\n🎯TP1: 2660\n🎯TP2: 2670"},
		{"prose without markers", "The market looks undecided today, no clean setup is visible."},
		{"empty", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			levels, err := Parse(tc.text)
			assert.Nil(t, levels)
			assert.ErrorIs(t, err, ErrIncomplete)
		})
	}
}

func TestParseDirection(t *testing.T) {
	base := "\n💰Entry: 100\n🚫SL: 90\n🎯TP1: 110\n🎯TP2: 120\n🎯TP3: 130"

	levels, err := Parse("🚨Signal: sell on BTCUSD🚨" + base)
	require.NoError(t, err)
	assert.Equal(t, DirectionSell, levels.Direction, "direction matching is case-insensitive")

	// Absent direction marker defaults to BUY; prices alone are enough.
	levels, err = Parse(base)
	require.NoError(t, err)
	assert.Equal(t, DirectionBuy, levels.Direction)
}

func TestParseThousandsSeparators(t *testing.T) {
	text := `🚨Signal: SELL on BTCUSD🚨
💰Entry: 65,250.50
🚫SL: 66,000
🎯TP1: 64,500
🎯TP2: 63,750.25
🎯TP3: 62,000`

	levels, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, 65250.50, levels.Entry)
	assert.Equal(t, 66000.0, levels.Stop)
	assert.Equal(t, 64500.0, levels.TP1)
	assert.Equal(t, 63750.25, levels.TP2)
	assert.Equal(t, 62000.0, levels.TP3)
}

func TestParseTrailingPeriod(t *testing.T) {
	// A marker value at the end of a sentence keeps its trailing period out
	// of the number.
	text := "🚨Signal: BUY on EURUSD🚨\n💰Entry: 1.0850.\n🚫SL: 1.0820\n🎯TP1: 1.0900\n🎯TP2: 1.0950\n🎯TP3: 1.1000"
	levels, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, 1.0850, levels.Entry)
}
