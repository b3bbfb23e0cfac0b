package filtergraph

import (
	"fmt"
	"strings"
)

// VideoScaleFilter Fit a video stream into a width x height box, keeping its aspect ratio.
// The result may be smaller than the box on one axis
// Documentation : https://ffmpeg.org/ffmpeg-filters.html#scale-1
type VideoScaleFilter struct {
	Node
	width  int
	height int
}

func NewVideoScaleFilter(target Filter, label string, width int, height int) *VideoScaleFilter {
	return &VideoScaleFilter{
		Node{
			name:     label,
			children: []Filter{target},
		},
		width,
		height}
}

func (vsf *VideoScaleFilter) Build() string {
	// Expected format : [0:v]scale=1280:720:force_original_aspect_ratio=decrease[scaled];
	ss := strings.Builder{}
	vsf.buildChildren(&ss)
	ss.WriteString(fmt.Sprintf("[%s]scale=%d:%d:force_original_aspect_ratio=decrease[%s];",
		vsf.children[0].Id(),
		vsf.width,
		vsf.height,
		vsf.Id()))
	return ss.String()
}

func (vsf *VideoScaleFilter) Id() string {
	return vsf.name
}
