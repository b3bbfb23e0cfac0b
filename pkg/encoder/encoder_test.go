package encoder

import (
	"context"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

// Run the encoder with sh instead of ffmpeg, args being a shell script
func shEncoder(t *testing.T, ctx context.Context, script string) *Encoder {
	original := Binary
	Binary = "sh"
	t.Cleanup(func() { Binary = original })
	return NewEncoder(&ctx, []string{"-c", script}, 4*time.Second)
}

func TestEncoder_StartSuccess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	enc := shEncoder(t, ctx, `printf 'frame=1 time=00:00:01.00\rframe=2 time=00:00:02.00\r' >&2`)
	go enc.Start()
	var progresses []float64
	for {
		select {
		case p := <-enc.PChan:
			progresses = append(progresses, p.Percent)
		case e := <-enc.EChan:
			t.Fatal(e)
		case <-enc.Ctx.Done():
			assert.Equal(t, []float64{25, 50}, progresses)
			assert.NoError(t, ctx.Err())
			return
		}
	}
}

func TestEncoder_StartError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	enc := shEncoder(t, ctx, `echo "./meh.mp4: No such file or directory" >&2; exit 1`)
	go enc.Start()
	errorTriggered := false
	for {
		select {
		case <-enc.PChan:
		case e := <-enc.EChan:
			assert.ErrorContains(t, e, "No such file or directory")
			assert.ErrorContains(t, e, "exit status 1")
			errorTriggered = true
		case <-enc.Ctx.Done():
			if !errorTriggered {
				t.Fatal("Expected error but not triggered")
			}
			return
		}
	}
}

// Cancelling the context kills the process
func TestEncoder_StartCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	enc := shEncoder(t, ctx, `exec sleep 30`)
	done := make(chan struct{})
	go func() {
		enc.Start()
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("encoder still running after cancellation")
	}
}

func TestEncoder_MissingBinary(t *testing.T) {
	original := Binary
	Binary = "/non/existing/ffmpeg"
	defer func() { Binary = original }()
	ctx := context.Background()
	enc := NewEncoder(&ctx, []string{"-version"}, 0)
	go enc.Start()
	select {
	case e := <-enc.EChan:
		assert.Error(t, e)
	case <-time.After(5 * time.Second):
		t.Fatal("Expected error but not triggered")
	}
}

func TestEncoder_GetCommandLine(t *testing.T) {
	ctx := context.Background()
	enc := NewEncoder(&ctx, []string{"-i", "my song.mp3", "-filter_complex", "[0:v]crop=1:1:'t'[v];[v]eq[w]", "out.mp4"}, 0)
	assert.Equal(t, `ffmpeg -i "my song.mp3" -filter_complex "[0:v]crop=1:1:'t'[v];[v]eq[w]" out.mp4`, enc.GetCommandLine())
}
