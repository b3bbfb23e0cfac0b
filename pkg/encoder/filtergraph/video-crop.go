package filtergraph

import (
	"fmt"
	"strings"
)

// VideoCropFilter Cut a width x height window out of the input. The window origin x/y
// is an expression, re-evaluated for every frame, so it can move over time
// Documentation : https://ffmpeg.org/ffmpeg-filters.html#crop
type VideoCropFilter struct {
	Node
	width  int
	height int
	x      Expr
	y      Expr
}

func NewVideoCropFilter(target Filter, label string, width int, height int, x Expr, y Expr) *VideoCropFilter {
	return &VideoCropFilter{
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

func (vcf *VideoCropFilter) Build() string {
	// Expected format : [padded]crop=1280:720:'6+0.800*sin(2*PI*t*2.700)':'6+0.800*cos(2*PI*t*2.700)'[shaken];
	ss := strings.Builder{}
	vcf.buildChildren(&ss)
	ss.WriteString(fmt.Sprintf("[%s]crop=%d:%d:%s:%s[%s];",
		vcf.children[0].Id(),
		vcf.width,
		vcf.height,
		optionValue(vcf.x),
		optionValue(vcf.y),
		vcf.Id()))
	return ss.String()
}

func (vcf *VideoCropFilter) Id() string {
	return vcf.name
}
