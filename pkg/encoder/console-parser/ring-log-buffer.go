package console_parser

import "strings"

// A string ring buffer, contains the last size lines of FFMPEG log
type ringLogBuffer struct {
	// proper string buffer
	content []string
	// total array size
	size int
	// Index of the next line to be inserted
	currentIndex int
	// Whether the buffer went around at least once
	full bool
}

func NewRingLogBuffer(size int) *ringLogBuffer {
	return &ringLogBuffer{size: size, content: make([]string, size)}
}

// Push Store a line, dropping the oldest one if the buffer is full. Blank lines are ignored
func (rlb *ringLogBuffer) Push(str string) {
	if strings.TrimSpace(str) == "" {
		return
	}
	rlb.content[rlb.currentIndex] = str
	rlb.currentIndex = (rlb.currentIndex + 1) % rlb.size
	if rlb.currentIndex == 0 {
		rlb.full = true
	}
}

// String All stored lines, oldest first
func (rlb *ringLogBuffer) String() string {
	if !rlb.full {
		return strings.Join(rlb.content[:rlb.currentIndex], "\n")
	}
	ordered := append(append([]string{}, rlb.content[rlb.currentIndex:]...), rlb.content[:rlb.currentIndex]...)
	return strings.Join(ordered, "\n")
}
