package test_utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RequireBinary Skip the test if a binary cannot be found in the PATH
func RequireBinary(t *testing.T, name string) {
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available : %s", name, err)
	}
}

// MakeCover Generate a 640x640 test pattern png in dir
func MakeCover(t *testing.T, dir string) string {
	out := filepath.Join(dir, "cover.png")
	runFFmpeg(t, "-f", "lavfi", "-i", "testsrc=size=640x640", "-frames:v", "1", out)
	return out
}

// MakeAudio Generate a sine wave mp3 lasting seconds in dir
func MakeAudio(t *testing.T, dir string, seconds int) string {
	out := filepath.Join(dir, fmt.Sprintf("sine_%ds.mp3", seconds))
	runFFmpeg(t, "-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=440:duration=%d", seconds), out)
	return out
}

// WriteFile Create a file holding content in dir, and return its path
func WriteFile(t *testing.T, dir string, name string, content []byte) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runFFmpeg(t *testing.T, args ...string) {
	RequireBinary(t, "ffmpeg")
	cmd := exec.Command("ffmpeg", append([]string{"-y", "-loglevel", "error"}, args...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg %v : %s : %s", args, err, out)
	}
}

// GetChecksum returns the SHA-256 checksum of the specified file
func GetChecksum(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hasher := sha256.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
