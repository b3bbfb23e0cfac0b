package encoder

import (
	"context"
	"fmt"
	console_parser "motion-box/pkg/encoder/console-parser"
	"os/exec"
	"strings"
	"time"
)

// Binary FFmpeg executable, resolved through the PATH
var Binary = "ffmpeg"

type Encoder struct {
	// FFMpeg arguments, the binary excluded
	args []string
	// Expected duration of the output
	duration time.Duration
	// Channel to send progress into
	PChan chan *console_parser.EncodingProgress
	// Channel to send errors into
	EChan chan error
	// Encoder context
	Ctx context.Context
	// Function to execute to Cancel the encoding process
	Cancel context.CancelFunc
}

// NewEncoder Build a new FFMpeg encoder running with args
func NewEncoder(ctx *context.Context, args []string, duration time.Duration) *Encoder {
	eCtx, cancel := context.WithCancel(*ctx)
	return &Encoder{
		args:     args,
		duration: duration,
		PChan:    make(chan *console_parser.EncodingProgress),
		EChan:    make(chan error),
		Ctx:      eCtx,
		Cancel:   cancel,
	}
}

// Start Run ffmpeg until it exits. Progress is sent into PChan, a failure into EChan.
// Ctx is cancelled once the process is over, whatever the outcome
func (e *Encoder) Start() {
	defer e.Cancel()
	// The process must outlive Ctx, which is cancelled when it completes.
	// Cancelling Ctx from outside kills it though
	cmd := exec.Command(Binary, e.args...)

	// FFMpeg pipe output in stderr for some reason
	stderr, err := cmd.StderrPipe()
	if err != nil {
		e.sendError(err)
		return
	}
	err = cmd.Start()
	if err != nil {
		e.sendError(err)
		return
	}
	stop := context.AfterFunc(e.Ctx, func() {
		_ = cmd.Process.Kill()
	})
	defer stop()

	line := console_parser.ParseOutput(&e.Ctx, &stderr, e.duration, e.PChan, e.EChan)
	err = cmd.Wait()
	if err != nil {
		e.sendError(fmt.Errorf("%s : %s", err.Error(), strings.TrimSpace(line)))
	}
}

// Only send an error if someone is still listening
func (e *Encoder) sendError(err error) {
	select {
	case e.EChan <- err:
	case <-e.Ctx.Done():
	}
}

// GetArgs FFmpeg arguments, without the binary
func (e *Encoder) GetArgs() []string {
	return e.args
}

// GetCommandLine Printable command line. Arguments holding spaces or quotes are quoted
func (e *Encoder) GetCommandLine() string {
	ss := strings.Builder{}
	ss.WriteString(Binary)
	for _, arg := range e.args {
		if strings.ContainsAny(arg, " '\";") {
			ss.WriteString(fmt.Sprintf(` "%s"`, strings.ReplaceAll(arg, `"`, `\"`)))
			continue
		}
		ss.WriteString(" " + arg)
	}
	return ss.String()
}
