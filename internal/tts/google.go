package tts

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	htgotts "github.com/hegedustibor/htgo-tts"

	"github.com/bookvox/bookvox/internal/media"
)

// googleEngine synthesizes through the Google Translate TTS endpoint. It
// needs network access and ignores Voice and Rate; the service offers
// neither.
type googleEngine struct{}

func newGoogleEngine() Engine {
	return &googleEngine{}
}

func (e *googleEngine) Name() string {
	return "googletts"
}

func (e *googleEngine) Available() bool {
	conn, err := net.DialTimeout("tcp", "translate.google.com:443", 2*time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (e *googleEngine) Synthesize(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return errors.New("text is required")
	}
	if req.OutputPath == "" {
		return errors.New("output path is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	scratch, err := os.MkdirTemp("", "bookvox-tts-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	language := req.Language
	if language == "" {
		language = "en"
	}

	speech := htgotts.Speech{Folder: scratch, Language: language}
	generated, err := speech.CreateSpeechFile(req.Text, "segment")
	if err != nil {
		return fmt.Errorf("google tts: %w", err)
	}

	return placeAudio(ctx, generated, req.OutputPath)
}

// placeAudio moves a generated file to its destination, transcoding when
// the extensions differ.
func placeAudio(ctx context.Context, generated, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(outputPath)), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if strings.EqualFold(filepath.Ext(generated), filepath.Ext(outputPath)) {
		if err := os.Rename(generated, outputPath); err == nil {
			return nil
		}
		// Rename across filesystems fails; fall back to a copy.
		data, err := os.ReadFile(generated)
		if err != nil {
			return fmt.Errorf("read generated audio: %w", err)
		}
		return os.WriteFile(outputPath, data, 0o644)
	}

	return media.NewProcessor(nil).Convert(ctx, generated, outputPath, "")
}
