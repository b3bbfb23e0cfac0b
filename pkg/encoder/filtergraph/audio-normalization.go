package filtergraph

import (
	"fmt"
	"strings"
)

// AudioNormalizationFilter : Normalize audio loudness to -16 LUFS, the usual target of streaming platforms
// Documentation : https://ffmpeg.org/ffmpeg-filters.html#loudnorm
type AudioNormalizationFilter struct {
	Node
}

func NewAudioNormalizationFilter(target Filter, label string) *AudioNormalizationFilter {
	return &AudioNormalizationFilter{
		Node{
			name:     label,
			children: []Filter{target},
		}}
}

func (anf *AudioNormalizationFilter) Build() string {
	// Expected format : [1:a]loudnorm=I=-16:TP=-1.5:LRA=11[norm];
	ss := strings.Builder{}
	anf.buildChildren(&ss)
	ss.WriteString(fmt.Sprintf("[%s]loudnorm=I=-16:TP=-1.5:LRA=11[%s];", anf.children[0].Id(), anf.Id()))
	return ss.String()
}

func (anf *AudioNormalizationFilter) Id() string {
	return anf.name
}
