package encoder

import (
	"encoding/json"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"strconv"
	"strings"
	"time"
)

// FallbackDuration Duration assumed, in seconds, when an audio file cannot be probed
const FallbackDuration = 180.0

// Probe FFprobe runner, returns the JSON description of a media file
var Probe = func(path string) (string, error) {
	return ffmpeg.Probe(path)
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// GetDuration Duration of a media file, as reported by ffprobe
func GetDuration(path string) (time.Duration, error) {
	out, err := Probe(path)
	if err != nil {
		return 0, errors.Wrapf(err, "probing %s", path)
	}
	var res probeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return 0, errors.WithStack(err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(res.Format.Duration), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "no duration for %s", path)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// ProbeDuration Duration of an audio file in seconds. A file that cannot be probed and an
// empty file are treated alike, the FallbackDuration is returned
func ProbeDuration(path string) float64 {
	d, err := GetDuration(path)
	if err != nil || d <= 0 {
		return FallbackDuration
	}
	return d.Seconds()
}
