package filtergraph

import (
	"fmt"
	"strings"
)

// VideoEqFilter Color grading
// Documentation : https://ffmpeg.org/ffmpeg-filters.html#eq
type VideoEqFilter struct {
	Node
	// -1.0 to 1.0, 0 being neutral
	brightness float64
	// -1000.0 to 1000.0, 1 being neutral
	contrast float64
	// 0.0 to 3.0, 1 being neutral
	saturation float64
}

func NewVideoEqFilter(target Filter, label string, brightness, contrast, saturation float64) *VideoEqFilter {
	return &VideoEqFilter{
		Node: Node{
			name:     label,
			children: []Filter{target},
		},
		brightness: brightness,
		contrast:   contrast,
		saturation: saturation,
	}
}

func (vef *VideoEqFilter) Build() string {
	// Expected format : [shaken]eq=brightness=0.015:contrast=1.035:saturation=1.085[v];
	ss := strings.Builder{}
	vef.buildChildren(&ss)
	ss.WriteString(fmt.Sprintf("[%s]eq=brightness=%s:contrast=%s:saturation=%s[%s];",
		vef.children[0].Id(),
		Num(vef.brightness),
		Num(vef.contrast),
		Num(vef.saturation),
		vef.Id()))
	return ss.String()
}

func (vef *VideoEqFilter) Id() string {
	return vef.name
}
