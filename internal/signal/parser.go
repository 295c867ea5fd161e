// Package signal extracts structured trade levels from the model's free-form
// response. The response format is a small line-oriented protocol: each field
// lives on its own line behind a fixed marker token. Parsing fails closed —
// if any price field is missing the whole parse is rejected rather than
// guessing from partial matches.
package signal

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Direction of a signal.
const (
	DirectionBuy  = "BUY"
	DirectionSell = "SELL"
)

// Marker tokens the model is instructed to emit, one per line.
const (
	MarkerSignal = "🚨Signal:"
	MarkerEntry  = "💰Entry:"
	MarkerStop   = "🚫SL:"
	MarkerTP1    = "🎯TP1:"
	MarkerTP2    = "🎯TP2:"
	MarkerTP3    = "🎯TP3:"
)

var (
	directionRe = regexp.MustCompile(`(?i)🚨Signal:\s*(BUY|SELL)`)
	entryRe     = regexp.MustCompile(`💰Entry:\s*([\d.,]+)`)
	stopRe      = regexp.MustCompile(`🚫SL:\s*([\d.,]+)`)
	tp1Re       = regexp.MustCompile(`🎯TP1:\s*([\d.,]+)`)
	tp2Re       = regexp.MustCompile(`🎯TP2:\s*([\d.,]+)`)
	tp3Re       = regexp.MustCompile(`🎯TP3:\s*([\d.,]+)`)
)

// ErrIncomplete reports that at least one required price marker was absent
// from the response text.
var ErrIncomplete = errors.New("signal response is missing required price markers")

// Levels is the structured signal extracted from a model response.
type Levels struct {
	Direction string  `json:"direction"`
	Entry     float64 `json:"entry"`
	Stop      float64 `json:"stop"`
	TP1       float64 `json:"tp1"`
	TP2       float64 `json:"tp2"`
	TP3       float64 `json:"tp3"`
}

// Parse extracts trade levels from text. The direction defaults to BUY when
// the signal marker is absent; every price field is required.
func Parse(text string) (*Levels, error) {
	levels := &Levels{Direction: DirectionBuy}

	if m := directionRe.FindStringSubmatch(text); m != nil {
		levels.Direction = strings.ToUpper(m[1])
	}

	fields := []struct {
		re   *regexp.Regexp
		name string
		dst  *float64
	}{
		{entryRe, "entry", &levels.Entry},
		{stopRe, "stop loss", &levels.Stop},
		{tp1Re, "tp1", &levels.TP1},
		{tp2Re, "tp2", &levels.TP2},
		{tp3Re, "tp3", &levels.TP3},
	}

	for _, f := range fields {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("%w: %s", ErrIncomplete, f.name)
		}
		v, err := parsePrice(m[1])
		if err != nil {
			return nil, fmt.Errorf("parse %s value %q: %w", f.name, m[1], err)
		}
		*f.dst = v
	}

	return levels, nil
}

// parsePrice converts a marker value to a float. Commas are thousands
// separators, the period is the decimal separator.
func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimRight(s, ".")
	return strconv.ParseFloat(s, 64)
}
