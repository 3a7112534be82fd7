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

// espeakEngine drives espeak-ng, the offline fallback. Output quality is
// robotic but it works without network and on any voice espeak ships.
type espeakEngine struct{}

func newEspeakEngine() Engine {
	return &espeakEngine{}
}

func (e *espeakEngine) Name() string {
	return "espeak"
}

func (e *espeakEngine) Available() bool {
	_, err := exec.LookPath("espeak-ng")
	return err == nil
}

func (e *espeakEngine) Synthesize(ctx context.Context, req Request) error {
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

	wavPath := filepath.Join(scratch, "segment.wav")

	args := []string{"-w", wavPath}
	if req.Voice != "" {
		args = append(args, "-v", req.Voice)
	} else if req.Language != "" {
		args = append(args, "-v", req.Language)
	}
	if req.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(req.Rate))
	}
	args = append(args, req.Text)

	cmd := exec.CommandContext(ctx, "espeak-ng", args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if errText != "" {
			return fmt.Errorf("espeak-ng failed: %w (%s)", err, errText)
		}
		return fmt.Errorf("espeak-ng failed: %w", err)
	}

	return placeAudio(ctx, wavPath, req.OutputPath)
}
