package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Transcriber is the slice of the transcription API this pipeline needs.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputPath string) (string, error)
}

type AudioToTextOptions struct {
	Title    string
	Model    string
	Markdown bool
}

// AudioToText transcribes the inputs in order and renders them into one
// document, plain text by default or Markdown with a metadata header.
func AudioToText(ctx context.Context, tr Transcriber, inputs []string, opts AudioToTextOptions, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(inputs) == 0 {
		return "", fmt.Errorf("no audio files to transcribe")
	}

	type section struct {
		source string
		text   string
	}

	sections := make([]section, 0, len(inputs))
	for _, input := range inputs {
		logger.Info("transcribing audio file", zap.String("path", input))
		text, err := tr.Transcribe(ctx, input, "")
		if err != nil {
			return "", fmt.Errorf("transcribe %s: %w", input, err)
		}
		sections = append(sections, section{source: input, text: text})
	}

	var b strings.Builder
	if opts.Markdown {
		title := opts.Title
		if title == "" {
			title = "Transcript"
		}
		fmt.Fprintf(&b, "# %s\n\n", title)
		if opts.Model != "" {
			fmt.Fprintf(&b, "- Model: `%s`\n", opts.Model)
		}
		fmt.Fprintf(&b, "- Generated: %s\n", time.Now().Format(time.RFC3339))
		b.WriteString("\n---\n\n")

		for _, s := range sections {
			if len(sections) > 1 {
				fmt.Fprintf(&b, "## %s\n\n", filepath.Base(s.source))
			}
			b.WriteString(strings.TrimSpace(s.text))
			b.WriteString("\n\n")
		}
	} else {
		for i, s := range sections {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(strings.TrimSpace(s.text))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// WriteDocument persists a rendered document, creating parent directories.
func WriteDocument(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
