package effects

import (
	"fmt"
	fg "motion-box/pkg/encoder/filtergraph"
)

// Dimensions Size of the rendered video
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultDimensions 720p
var DefaultDimensions = Dimensions{Width: 1280, Height: 720}

const (
	// Stream the cover image comes from
	CoverStream = "0:v"
	// Output label of the video graph, to be used in "-map [v]"
	VideoLabel = "v"
	// Frequency of the shake oscillation, as a multiple of PI
	shakeFreq = 20
	// Amplitude of a shake, relative to the vibration intensity
	shakeGain = 3
	// Shift of the vertical shake window, as a share of the shake interval
	verticalShakePhase = 0.3
)

// Intermediate stream labels
const (
	scaledLabel   = "scaled"
	centeredLabel = "centered"
	paddedLabel   = "padded"
	shakenLabel   = "shaken"
)

// BuildFilterGraph Turn the parameters into the video filter tree :
// scale -> center pad -> margin pad -> moving crop -> color grading
func BuildFilterGraph(p Parameters, dim Dimensions) (fg.Filter, error) {
	if dim.Width <= 0 || dim.Height <= 0 {
		return nil, fmt.Errorf("invalid output dimensions %dx%d", dim.Width, dim.Height)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effect parameters : %w", err)
	}
	x, y := cropOrigin(p)
	for _, e := range []fg.Expr{x, y} {
		if err := fg.CheckFinite(e); err != nil {
			return nil, fmt.Errorf("invalid crop expression %q : %w", e, err)
		}
	}

	var root fg.Filter = fg.NewInput(CoverStream)
	root = fg.NewVideoScaleFilter(root, scaledLabel, dim.Width, dim.Height)
	root = fg.NewCenterPadFilter(root, centeredLabel, dim.Width, dim.Height)
	root = fg.NewMarginPadFilter(root, paddedLabel, dim.Width, dim.Height, p.TotalPadding)
	root = fg.NewVideoCropFilter(root, shakenLabel, dim.Width, dim.Height, x, y)
	root = fg.NewVideoEqFilter(root, VideoLabel, p.Brightness, p.Contrast, p.Saturation)
	return root, nil
}

// FilterGraph Same as BuildFilterGraph, compiled into a filter_complex value
func FilterGraph(p Parameters, dim Dimensions) (string, error) {
	root, err := BuildFilterGraph(p, dim)
	if err != nil {
		return "", err
	}
	return fg.Compile(root)
}

// Position of the crop window over time. Both axes vibrate in quadrature (sin/cos of the
// same phase) and get a stronger shake during the first ShakeDuration seconds of every
// ShakeInterval. The vertical shake window is shifted so both axes never shake together
func cropOrigin(p Parameters) (x fg.Expr, y fg.Expr) {
	amplitude := fg.Num(p.VibrationIntensity)
	phase := fg.Mul(fg.Int(2), fg.Pi, fg.T, fg.Num(p.VibrationFreq))
	shakePhase := fg.Mul(fg.Int(shakeFreq), fg.Pi, fg.T)
	interval := fg.Num(p.ShakeInterval)
	duration := fg.Num(p.ShakeDuration)

	shaking := func(at fg.Expr) fg.Expr {
		return fg.Lt(fg.Mod(at, interval), duration)
	}
	x = fg.Add(
		fg.Int(p.TotalPadding),
		fg.Mul(amplitude, fg.Sin(phase)),
		fg.If(shaking(fg.T), fg.Mul(amplitude, fg.Int(shakeGain), fg.Sin(shakePhase)), fg.Int(0)))
	y = fg.Add(
		fg.Int(p.TotalPadding),
		fg.Mul(amplitude, fg.Cos(phase)),
		fg.If(shaking(fg.Add(fg.T, fg.Mul(interval, fg.Num(verticalShakePhase)))),
			fg.Mul(amplitude, fg.Int(shakeGain), fg.Cos(shakePhase)), fg.Int(0)))
	return x, y
}
