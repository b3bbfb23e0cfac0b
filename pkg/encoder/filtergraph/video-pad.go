package filtergraph

import (
	"fmt"
	"strings"
)

// VideoPadFilter Put the input stream onto a bigger canvas, at position x/y
// Documentation : https://ffmpeg.org/ffmpeg-filters.html#pad-1
type VideoPadFilter struct {
	Node
	// Canvas size
	width  Expr
	height Expr
	// Position of the input top left corner on the canvas
	x Expr
	y Expr
}

func NewVideoPadFilter(target Filter, label string, width, height, x, y Expr) *VideoPadFilter {
	return &VideoPadFilter{
		Node: Node{
			name:     label,
			children: []Filter{target},
		},
		width:  width,
		height: height,
		x:      x,
		y:      y,
	}
}

// NewCenterPadFilter Pad the input to exactly width x height, input centered
func NewCenterPadFilter(target Filter, label string, width int, height int) *VideoPadFilter {
	return NewVideoPadFilter(target, label,
		Int(width),
		Int(height),
		Div(Sub(OutW, InW), Int(2)),
		Div(Sub(OutH, InH), Int(2)))
}

// NewMarginPadFilter Add margin pixels on every side of a width x height input
func NewMarginPadFilter(target Filter, label string, width int, height int, margin int) *VideoPadFilter {
	return NewVideoPadFilter(target, label,
		Int(width+2*margin),
		Int(height+2*margin),
		Int(margin),
		Int(margin))
}

func (vpf *VideoPadFilter) Build() string {
	// Expected format : [scaled]pad=1280:720:(ow-iw)/2:(oh-ih)/2[centered];
	ss := strings.Builder{}
	vpf.buildChildren(&ss)
	ss.WriteString(fmt.Sprintf("[%s]pad=%s:%s:%s:%s[%s];",
		vpf.children[0].Id(),
		optionValue(vpf.width),
		optionValue(vpf.height),
		optionValue(vpf.x),
		optionValue(vpf.y),
		vpf.Id()))
	return ss.String()
}

func (vpf *VideoPadFilter) Id() string {
	return vpf.name
}
