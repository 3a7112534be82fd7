package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// sayEngine uses the macOS say command with the system voices.
type sayEngine struct{}

func newSayEngine() Engine {
	return &sayEngine{}
}

func (e *sayEngine) Name() string {
	return "say"
}

func (e *sayEngine) Available() bool {
	_, err := exec.LookPath("say")
	return err == nil
}

func (e *sayEngine) Synthesize(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return errors.New("text is required")
	}
	if req.OutputPath == "" {
		return errors.New("output path is required")
	}

	scratch, err := os.MkdirTemp("", "bookvox-tts-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	aiffPath := filepath.Join(scratch, "segment.aiff")

	args := []string{"-o", aiffPath}
	if req.Voice != "" {
		args = append(args, "-v", req.Voice)
	}
	if req.Rate > 0 {
		args = append(args, "-r", strconv.Itoa(req.Rate))
	}
	args = append(args, req.Text)

	cmd := exec.CommandContext(ctx, "say", args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if errText != "" {
			return fmt.Errorf("say failed: %w (%s)", err, errText)
		}
		return fmt.Errorf("say failed: %w", err)
	}

	return placeAudio(ctx, aiffPath, req.OutputPath)
}
