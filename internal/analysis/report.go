package analysis

import (
	"fmt"
	"strings"

	"github.com/rcastillo/chartsight/internal/risk"
)

// riskSection renders the locally computed sizing block appended to the
// model's analysis text.
func riskSection(capital, riskPct float64, c *risk.Computation) string {
	var sb strings.Builder

	sb.WriteString("\n\n📉RISK MANAGEMENT📉\n")
	fmt.Fprintf(&sb, "💰 Capital: $%.2f\n", capital)
	fmt.Fprintf(&sb, "⚠️ Risk: %g%%\n", riskPct)
	fmt.Fprintf(&sb, "💵 Money at risk: $%.2f\n", c.RiskAmount)
	fmt.Fprintf(&sb, "📊 Position size: %.2f lots\n", c.PositionSize)
	for i, t := range c.Targets {
		fmt.Fprintf(&sb, "💎 Potential profit TP%d: $%.2f (R:R %.2f)\n", i+1, t.ProfitAmount, t.RewardRatio)
	}
	fmt.Fprintf(&sb, "📈 Average reward ratio: %.2f\n", c.AvgRewardRatio)
	fmt.Fprintf(&sb, "\nℹ️ Point value: $%g | SL distance: %.1f points", c.PointValue, c.StopDistance)

	return sb.String()
}
