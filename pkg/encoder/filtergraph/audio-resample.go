package filtergraph

import (
	"fmt"
	"strings"
)

// AudioResampleFilter Convert the audio to planar float stereo at the given rate.
// loudnorm upsamples to 192kHz, so its output must be brought back to a sane rate
// Documentation : https://ffmpeg.org/ffmpeg-filters.html#aformat
type AudioResampleFilter struct {
	Node
	// Sampling rate to resample the audio into
	targetFormat Sampling
}

func NewAudioResampleFilter(target Filter, label string, targetFormat Sampling) *AudioResampleFilter {
	return &AudioResampleFilter{Node{
		name:     label,
		children: []Filter{target},
	}, targetFormat}
}

func (arf *AudioResampleFilter) Build() string {
	// Expected format : [norm]aformat=sample_fmts=fltp:sample_rates=44100:channel_layouts=stereo[a];
	ss := strings.Builder{}
	arf.buildChildren(&ss)
	ss.WriteString(
		fmt.Sprintf("[%s]aformat=sample_fmts=fltp:sample_rates=%s:channel_layouts=stereo[%s];",
			arf.children[0].Id(),
			arf.targetFormat,
			arf.Id()))

	return ss.String()
}

func (arf *AudioResampleFilter) Id() string {
	return arf.name
}

// Sampling rates
type Sampling string

// K44 CD quality, what the AAC output is encoded at
const K44 Sampling = "44100"
