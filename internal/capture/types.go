package capture

// Asset symbols the service accepts for analysis.
const (
	AssetXAUUSD = "XAUUSD"
	AssetBTCUSD = "BTCUSD"
	AssetNAS100 = "NAS100"
	AssetUS30   = "US30"
	AssetEURUSD = "EURUSD"
)

// AllowedAssets lists every supported symbol, in display order.
var AllowedAssets = []string{AssetXAUUSD, AssetBTCUSD, AssetNAS100, AssetUS30, AssetEURUSD}

// Mode is the trading mode a capture plan is resolved for.
type Mode string

const (
	ModeScalping Mode = "SCALPING"
	ModeIntraday Mode = "INTRADAY"
)

// Device is the platform the charts were captured on. PC plans carry two
// images, mobile plans carry three.
type Device string

const (
	DevicePC     Device = "PC"
	DeviceMobile Device = "MOBILE"
)

// Detail is the per-image fidelity hint passed to the vision model.
type Detail string

const (
	DetailLow  Detail = "low"
	DetailHigh Detail = "high"
)

// Plan describes the chart captures required for one analysis: how many
// images, which timeframe each one shows and at which detail level it is
// sent. Timeframes, Details and Images always have matching length; the last
// image is the execution timeframe and is always high detail.
type Plan struct {
	Images        int
	Timeframes    []string
	Labels        []string
	Details       []Detail
	Effectiveness string
}

// ValidAsset reports whether symbol is one of the supported assets.
func ValidAsset(symbol string) bool {
	for _, a := range AllowedAssets {
		if a == symbol {
			return true
		}
	}
	return false
}

// ValidMode reports whether m is a known trading mode.
func ValidMode(m Mode) bool {
	return m == ModeScalping || m == ModeIntraday
}

// ValidDevice reports whether d is a known capture device.
func ValidDevice(d Device) bool {
	return d == DevicePC || d == DeviceMobile
}
