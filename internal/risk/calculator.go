// Package risk derives position sizing from a parsed signal. The math is
// deterministic: size = riskAmount / (stopDistance * pointValue), reward
// ratio per target = targetProfit / riskAmount. Distances are magnitudes;
// the declared direction selects which side of entry is stop vs target
// conceptually but never changes the numbers.
package risk

import (
	"errors"
	"math"
)

// Point value per standard lot for each supported asset. Unknown symbols
// fall back to defaultPointValue.
var pointValues = map[string]float64{
	"XAUUSD": 100.0,
	"BTCUSD": 10.0,
	"NAS100": 10.0,
	"US30":   10.0,
	"EURUSD": 10.0,
}

const defaultPointValue = 10.0

var (
	// ErrZeroStopDistance is returned when entry and stop price coincide,
	// which would make the position size infinite.
	ErrZeroStopDistance = errors.New("stop distance is zero")

	// ErrInvalidRiskPercent is returned when the risk percentage is outside
	// the accepted 1-5 range.
	ErrInvalidRiskPercent = errors.New("risk percent must be between 1 and 5")
)

// Target holds the derived numbers for one take-profit level.
type Target struct {
	Price        float64 `json:"price"`
	ProfitAmount float64 `json:"profit_amount"`
	RewardRatio  float64 `json:"reward_ratio"`
}

// Computation is the full sizing result for a signal. Monetary amounts,
// position size and ratios are rounded to 2 decimals, the stop distance to 1.
type Computation struct {
	PositionSize   float64   `json:"position_size"`
	RiskAmount     float64   `json:"risk_amount"`
	StopDistance   float64   `json:"stop_distance"`
	PointValue     float64   `json:"point_value"`
	Targets        [3]Target `json:"targets"`
	AvgRewardRatio float64   `json:"avg_reward_ratio"`
}

// PointValue returns the per-lot point value for an asset symbol.
func PointValue(asset string) float64 {
	if v, ok := pointValues[asset]; ok {
		return v
	}
	return defaultPointValue
}

// Compute derives position size and reward ratios for a signal. It is a pure
// function: identical inputs produce identical rounded outputs.
func Compute(asset string, entry, stop, tp1, tp2, tp3, capital, riskPct float64, direction string) (*Computation, error) {
	if riskPct < 1 || riskPct > 5 {
		return nil, ErrInvalidRiskPercent
	}

	pointValue := PointValue(asset)

	stopDistance := math.Abs(entry - stop)
	if stopDistance == 0 {
		return nil, ErrZeroStopDistance
	}

	riskAmount := capital * (riskPct / 100)
	size := round2(riskAmount / (stopDistance * pointValue))

	c := &Computation{
		PositionSize: size,
		RiskAmount:   round2(riskAmount),
		StopDistance: round1(stopDistance),
		PointValue:   pointValue,
	}

	var ratioSum float64
	for i, tp := range [3]float64{tp1, tp2, tp3} {
		profit := math.Abs(tp-entry) * pointValue * size
		ratio := 0.0
		if riskAmount > 0 {
			ratio = profit / riskAmount
		}
		c.Targets[i] = Target{
			Price:        tp,
			ProfitAmount: round2(profit),
			RewardRatio:  round2(ratio),
		}
		ratioSum += ratio
	}
	c.AvgRewardRatio = round2(ratioSum / 3)

	return c, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
