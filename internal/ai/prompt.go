package ai

import (
	"fmt"
	"strings"
	"time"
)

const systemPrompt = `You are a professional institutional market analyst specialized in Smart Money Concept.

YOUR MISSION:
Analyze trading chart screenshots with professional precision, identifying institutional moves and providing exact levels based ONLY on what is visible in the images.

ANALYSIS METHODOLOGY:
1. Identify the current price and the visible time range
2. Analyze market structure (Higher Highs, Higher Lows, Lower Highs, Lower Lows)
3. Detect Break of Structure (BOS) and Change of Character (CHoCH)
4. Locate institutional liquidity zones
5. Identify high-probability Order Blocks
6. Spot Fair Value Gaps (imbalances)
7. Determine confluences for optimal entry/exit levels

PRICE READING:
- Read the EXACT prices from the right axis of the chart
- Observe dates and times on the bottom axis
- If a level is unclear, mark it as approximate
- Every level must be coherent with the visible current price

RESPONSE FORMAT (EACH FIELD ON ITS OWN LINE):

🚨Signal: [BUY/SELL] on [ASSET]🚨
💰Entry: [price]
🚫SL: [price]
🎯TP1: [price]
🎯TP2: [price]
🎯TP3: [price]
✅Probability: [50-95]%
📊Context: [ONE line highlighting the MOST important finding of the analysis]

CRITICAL: Respect this format EXACTLY, with each marker and value on its own line.

IMPORTANT:
- Do NOT compute risk management, position size or USD profits
- Only provide price levels based on technical analysis
- Focus on the quality of the institutional read`

// BuildUserPrompt renders the per-request context text that accompanies the
// chart images.
func BuildUserPrompt(req *Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Professionally analyze the %s charts for %s mode, captured from %s.\n\n",
		req.Asset, req.Mode, req.Device)

	sb.WriteString("CONTEXT:\n")
	fmt.Fprintf(&sb, "Date: %s | Time: %s\n", time.Now().Format("2006-01-02"), req.SessionTime)
	fmt.Fprintf(&sb, "Timeframes: %s (%d images)\n", strings.Join(req.Timeframes, ", "), len(req.Images))

	if req.MacroEvent {
		fmt.Fprintf(&sb, "Macro event: YES - %s\n", req.MacroEventNote)
	} else {
		sb.WriteString("Macro event: NO\n")
	}

	if req.ExtraContext != "" {
		fmt.Fprintf(&sb, "\nAdditional information: %s\n", req.ExtraContext)
	}

	sb.WriteString(`
INSTRUCTIONS:
1. Identify the current price visible on the closest chart (last candle)
2. Analyze market structure using Smart Money Concept
3. Locate liquidity zones, order blocks and fair value gaps
4. Determine precise entry, stop loss and take profit levels
5. Provide an institutional read of the expected move

Read the EXACT prices from the charts and base every level on technical confluences.

IMPORTANT: Do NOT compute position size or risk management. Only provide price levels (Entry, SL, TP1, TP2, TP3).`)

	return sb.String()
}
