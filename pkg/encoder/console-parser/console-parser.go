package console_parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	log "motion-box/pkg/logger"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	logger = log.Build()
	// Match every "=" followed by blanks, ffmpeg pads its progress values
	blanks = regexp.MustCompile(`=\s+`)
	// A size as printed by ffmpeg : "1024kB", "12KiB", "3MiB"
	sizeRegex = regexp.MustCompile(`^(\d+)([a-zA-Z]+)$`)
)

// EncodingProgress A progress as emitted by Ffmpeg
type EncodingProgress struct {
	// Number of total frames processed
	Frames int64 `json:"frames"`
	// Number of frames processed each second
	Fps float32 `json:"fps"`
	// Quality target. Usually between 20 and 30
	Quality float32 `json:"quality"`
	// Estimated size of the converted file (kb)
	Size int64 `json:"size"`
	// Total processed time
	Time time.Duration `json:"time"`
	// Target bitrate
	Bitrate string `json:"bitrate"`
	// Encoding speed. A "2" means 1 second of encoding would be a 2 seconds playback
	Speed float32 `json:"speed"`
	// The duration of the output file
	TargetDuration time.Duration `json:"totalDuration"`
	// Share of the output already encoded, from 0 to 100. Zero when the target duration is unknown
	Percent float64 `json:"percent"`
}

// ParseOutput Read ffmpeg console output until EOF or ctx cancellation, sending every progress
// line into progressChan. target is the expected output duration, zero if unknown.
// Return the last lines read, to be used as an error message
func ParseOutput(ctx *context.Context, readStream *io.ReadCloser, target time.Duration, progressChan chan *EncodingProgress, errorChan chan error) string {
	scanner := bufio.NewScanner(*readStream)
	scanner.Split(scanFfmpegOutput)

	// Store the last n ffmpeg lines
	stack := NewRingLogBuffer(5)
	for scanner.Scan() {
		line := scanner.Text()
		stack.Push(line)
		// And check if it's the progress line
		// A progress line begins with "frame=". Discard the line otherwise
		if !strings.HasPrefix(line, "frame=") {
			continue
		}
		progress, err := parseProgress(line)
		if err != nil {
			logger.Warnf("[Console parser] :: progress line \"%s\" ignored", line)
			continue
		}
		progress.withTarget(target)
		// Return the parsed progress, unless the operation has been cancelled
		select {
		case progressChan <- progress:
		case <-(*ctx).Done():
			return stack.String()
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case errorChan <- err:
		case <-(*ctx).Done():
		}
	}
	return stack.String()
}

// scanFfmpegOutput A modified version of a traditional scanLine, allowing to parse FFMpeg output
func scanFfmpegOutput(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		// In FFMPEG's case, a line ended by a lone \r is a progress line
		return i + 1, data[0:i], nil
	}
	// If we're at EOF, we have a final, non-terminated line. Return it.
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Parse a progress line in the following format :
// frame=   85 fps=0.0 q=28.0 size=       0kB time=00:00:01.04 bitrate=   0.4kbits/s speed=   2x
func parseProgress(progressLine string) (*EncodingProgress, error) {
	components := strings.Fields(blanks.ReplaceAllString(strings.TrimSpace(progressLine), "="))
	p := &EncodingProgress{}
	for _, c := range components {
		key, value, err := parseComponentString(c)
		if err != nil {
			return nil, err
		}
		switch key {
		case "frame":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				p.Frames = n
			}
		case "fps":
			if n, err := strconv.ParseFloat(value, 32); err == nil {
				p.Fps = float32(n)
			}
		case "q":
			if n, err := strconv.ParseFloat(value, 32); err == nil {
				p.Quality = float32(n)
			}
		case "size", "Lsize":
			if s, err := parseSize(value); err == nil {
				p.Size = s
			}
		case "bitrate":
			p.Bitrate = value
		case "time":
			if d, err := parseTimestamp(value); err == nil {
				p.Time = d
			}
		case "speed":
			if n, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 32); err == nil {
				p.Speed = float32(n)
			}
		}
	}
	return p, nil
}

func (p *EncodingProgress) withTarget(target time.Duration) {
	p.TargetDuration = target
	if target <= 0 {
		return
	}
	p.Percent = float64(p.Time) / float64(target) * 100
	if p.Percent > 100 {
		p.Percent = 100
	}
}

// Parse a string with format "key=value" into a key/value pair
func parseComponentString(str string) (key string, value string, err error) {
	pair := strings.Split(str, "=")
	if len(pair) != 2 {
		return "", "", fmt.Errorf("invalid pair : %s", pair)
	}
	return pair[0], pair[1], nil
}

// Parse a "00:01:31.60" timestamp
func parseTimestamp(raw string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()), nil
}

// Parse a "12kb" string into a Kilo based size
func parseSize(rawSize string) (int64, error) {
	matches := sizeRegex.FindStringSubmatch(rawSize)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid format")
	}
	size, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, err
	}
	multiplier, err := getSizeMultiplier(strings.ToLower(matches[2]))
	if err != nil {
		return 0, err
	}
	return size * multiplier, nil
}

// Return a multiplier to convert any unit into kb
func getSizeMultiplier(unit string) (int64, error) {
	switch strings.Replace(unit, "ib", "b", 1) {
	case "kb":
		return 1, nil
	case "mb":
		return 1024, nil
	case "gb":
		return 1024 * 1024, nil
	}
	return 0, fmt.Errorf("unknown unit %s", unit)
}
