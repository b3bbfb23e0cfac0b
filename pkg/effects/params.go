package effects

import (
	"fmt"
	"math"
)

// Parameters Every knob of the generated motion and grading. Built once from a seed by Compute
type Parameters struct {
	// Amplitude of the continuous vibration, in pixels. [0.5, 1.4]
	VibrationIntensity float64 `json:"vibrationIntensity"`
	// Vibration frequency, in Hz. [2.0, 4.9]
	VibrationFreq float64 `json:"vibrationFreq"`
	// Period between two shakes, in seconds. [8.0, 17.9]
	ShakeInterval float64 `json:"shakeInterval"`
	// Length of a shake, in seconds. [0.10, 0.24]
	ShakeDuration float64 `json:"shakeDuration"`
	// eq filter values. [0.010, 0.029], [1.030, 1.069] and [1.080, 1.119]
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	// Margin added around the picture so the moving crop never shows the canvas edges. {5, 6}
	TotalPadding int `json:"totalPadding"`
}

// Compute Map a seed to its effect parameters
func Compute(seed uint32) Parameters {
	vibrationIntensity := 0.5 + float64(seed%10)/10
	return Parameters{
		VibrationIntensity: vibrationIntensity,
		VibrationFreq:      2.0 + float64(seed%30)/10,
		ShakeInterval:      8.0 + float64(seed%100)/10,
		ShakeDuration:      0.10 + float64(seed%15)/100,
		Brightness:         0.01 + float64(seed%20)/1000,
		Contrast:           1.03 + float64(seed%40)/1000,
		Saturation:         1.08 + float64(seed%40)/1000,
		TotalPadding:       int(math.Floor(vibrationIntensity + 5)),
	}
}

// Validate Check the parameters can be turned into a filter graph
func (p Parameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"vibration intensity", p.VibrationIntensity},
		{"vibration frequency", p.VibrationFreq},
		{"shake interval", p.ShakeInterval},
		{"shake duration", p.ShakeDuration},
		{"brightness", p.Brightness},
		{"contrast", p.Contrast},
		{"saturation", p.Saturation},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.value)
		}
	}
	// mod(t, 0) is undefined
	if p.ShakeInterval <= 0 {
		return fmt.Errorf("shake interval must be positive, got %v", p.ShakeInterval)
	}
	if p.VibrationIntensity < 0 || p.ShakeDuration < 0 {
		return fmt.Errorf("vibration intensity and shake duration cannot be negative")
	}
	// The crop origin is padding +/- 4 times the intensity at most
	if float64(p.TotalPadding) < 4*p.VibrationIntensity {
		return fmt.Errorf("padding of %dpx cannot absorb a %.3fpx vibration", p.TotalPadding, p.VibrationIntensity)
	}
	return nil
}

// String Human readable summary
func (p Parameters) String() string {
	return fmt.Sprintf(
		"Vibration (intensity=%.1fpx, freq=%.2fHz), "+
			"Occasional Shake (avg interval=%.1fs, duration=%.2fs), "+
			"Color (brightness=%.3f, contrast=%.3f, saturation=%.3f)",
		p.VibrationIntensity, p.VibrationFreq,
		p.ShakeInterval, p.ShakeDuration,
		p.Brightness, p.Contrast, p.Saturation)
}
