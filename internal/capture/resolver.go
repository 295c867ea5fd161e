// Package capture resolves which chart screenshots an analysis needs for a
// given asset, trading mode and device, and at which detail level each image
// should be sent to the vision model.
package capture

type planKey struct {
	mode   Mode
	device Device
	asset  string
}

var plans = map[planKey]Plan{
	// SCALPING / PC
	{ModeScalping, DevicePC, AssetXAUUSD}: {
		Images:        2,
		Timeframes:    []string{"M15", "M1"},
		Labels:        []string{"Direction + Setup (M15)", "Precise Entry (M1)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "87%",
	},
	{ModeScalping, DevicePC, AssetNAS100}: {
		Images:        2,
		Timeframes:    []string{"M15", "M1"},
		Labels:        []string{"Direction + Setup (M15)", "Precise Entry (M1)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "89%",
	},
	{ModeScalping, DevicePC, AssetBTCUSD}: {
		Images:        2,
		Timeframes:    []string{"H1", "M1"},
		Labels:        []string{"Direction + Setup (H1)", "Precise Entry (M1)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "84%",
	},
	{ModeScalping, DevicePC, AssetUS30}: {
		Images:        2,
		Timeframes:    []string{"M15", "M1"},
		Labels:        []string{"Direction + Setup (M15)", "Precise Entry (M1)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "86%",
	},
	{ModeScalping, DevicePC, AssetEURUSD}: {
		Images:        2,
		Timeframes:    []string{"H1", "M5"},
		Labels:        []string{"Direction + Setup (H1)", "Precise Entry (M5)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "85%",
	},

	// SCALPING / MOBILE
	{ModeScalping, DeviceMobile, AssetXAUUSD}: {
		Images:        3,
		Timeframes:    []string{"M15", "M5", "M1"},
		Labels:        []string{"Direction (M15)", "Setup (M5)", "Entry (M1)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "88%",
	},
	{ModeScalping, DeviceMobile, AssetNAS100}: {
		Images:        3,
		Timeframes:    []string{"M15", "M5", "M1"},
		Labels:        []string{"Direction (M15)", "Setup (M5)", "Entry (M1)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "90%",
	},
	{ModeScalping, DeviceMobile, AssetBTCUSD}: {
		Images:        3,
		Timeframes:    []string{"H1", "M5", "M1"},
		Labels:        []string{"Direction (H1)", "Setup (M5)", "Entry (M1)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "85%",
	},
	{ModeScalping, DeviceMobile, AssetUS30}: {
		Images:        3,
		Timeframes:    []string{"M15", "M5", "M1"},
		Labels:        []string{"Direction (M15)", "Setup (M5)", "Entry (M1)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "87%",
	},
	{ModeScalping, DeviceMobile, AssetEURUSD}: {
		Images:        3,
		Timeframes:    []string{"H1", "M15", "M5"},
		Labels:        []string{"Direction (H1)", "Setup (M15)", "Entry (M5)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "86%",
	},

	// INTRADAY / PC
	{ModeIntraday, DevicePC, AssetXAUUSD}: {
		Images:        2,
		Timeframes:    []string{"H1", "M15"},
		Labels:        []string{"Day Context (H1)", "Intraday Execution (M15)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "85%",
	},
	{ModeIntraday, DevicePC, AssetNAS100}: {
		Images:        2,
		Timeframes:    []string{"H1", "M15"},
		Labels:        []string{"Day Context (H1)", "Intraday Execution (M15)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "86%",
	},
	{ModeIntraday, DevicePC, AssetBTCUSD}: {
		Images:        2,
		Timeframes:    []string{"H4", "M15"},
		Labels:        []string{"Higher Context (H4)", "Intraday Execution (M15)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "83%",
	},
	{ModeIntraday, DevicePC, AssetUS30}: {
		Images:        2,
		Timeframes:    []string{"H1", "M30"},
		Labels:        []string{"Day Context (H1)", "Intraday Execution (M30)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "84%",
	},
	{ModeIntraday, DevicePC, AssetEURUSD}: {
		Images:        2,
		Timeframes:    []string{"H4", "M15"},
		Labels:        []string{"Higher Context (H4)", "Intraday Execution (M15)"},
		Details:       []Detail{DetailLow, DetailHigh},
		Effectiveness: "82%",
	},

	// INTRADAY / MOBILE
	{ModeIntraday, DeviceMobile, AssetXAUUSD}: {
		Images:        3,
		Timeframes:    []string{"H1", "M15", "M5"},
		Labels:        []string{"Macro Bias (H1)", "Confirmation (M15)", "Entry (M5)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "86%",
	},
	{ModeIntraday, DeviceMobile, AssetNAS100}: {
		Images:        3,
		Timeframes:    []string{"H1", "M15", "M5"},
		Labels:        []string{"Macro Bias (H1)", "Confirmation (M15)", "Entry (M5)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "87%",
	},
	{ModeIntraday, DeviceMobile, AssetBTCUSD}: {
		Images:        3,
		Timeframes:    []string{"H4", "H1", "M15"},
		Labels:        []string{"Macro Bias (H4)", "Confirmation (H1)", "Entry (M15)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "84%",
	},
	{ModeIntraday, DeviceMobile, AssetUS30}: {
		Images:        3,
		Timeframes:    []string{"H1", "M30", "M5"},
		Labels:        []string{"Macro Bias (H1)", "Confirmation (M30)", "Entry (M5)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "85%",
	},
	{ModeIntraday, DeviceMobile, AssetEURUSD}: {
		Images:        3,
		Timeframes:    []string{"H4", "H1", "M15"},
		Labels:        []string{"Macro Bias (H4)", "Confirmation (H1)", "Entry (M15)"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "83%",
	},
}

// Resolve returns the capture plan for the given triple. The second return
// value reports whether the exact combination was found: when false, a
// generic per-device fallback is returned so callers can log the miss
// instead of silently masking a configuration gap.
func Resolve(asset string, mode Mode, device Device) (Plan, bool) {
	if p, ok := plans[planKey{mode, device, asset}]; ok {
		return p, true
	}
	return fallback(device), false
}

func fallback(device Device) Plan {
	if device == DevicePC {
		return Plan{
			Images:        2,
			Timeframes:    []string{"H1", "M15"},
			Labels:        []string{"Context", "Execution"},
			Details:       []Detail{DetailLow, DetailHigh},
			Effectiveness: "80%",
		}
	}
	return Plan{
		Images:        3,
		Timeframes:    []string{"H1", "M15", "M5"},
		Labels:        []string{"Context", "Structure", "Execution"},
		Details:       []Detail{DetailLow, DetailLow, DetailHigh},
		Effectiveness: "80%",
	}
}
