package ai

import "github.com/rcastillo/chartsight/internal/capture"

// Image is one chart screenshot with the detail level it is sent at.
type Image struct {
	Data   []byte
	Detail capture.Detail
}

// Request carries everything needed to build one model call.
type Request struct {
	Asset       string
	Mode        capture.Mode
	Device      capture.Device
	Timeframes  []string
	Images      []Image
	SessionTime string

	MacroEvent     bool
	MacroEventNote string
	ExtraContext   string
}

// Response is the model's answer plus its token accounting.
type Response struct {
	Text       string
	TokensUsed int
}
