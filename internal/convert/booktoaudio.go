// Package convert drives the two long-running pipelines: book to audiobook
// and audio back to a text document.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/bookvox/bookvox/internal/book"
	"github.com/bookvox/bookvox/internal/media"
	"github.com/bookvox/bookvox/internal/textutil"
	"github.com/bookvox/bookvox/internal/tts"
)

const defaultChunkSize = 2000

type BookToAudioOptions struct {
	OutputDir  string
	Format     string
	Bitrate    string
	Language   string
	Voice      string
	Rate       int
	ChunkSize  int
	NoProgress bool
}

// BookConverter synthesizes chapters one at a time: chunk the text, render
// each chunk to its own segment file, then concatenate the segments into a
// per-chapter output.
type BookConverter struct {
	engine tts.Engine
	logger *zap.Logger

	synthesizeFn func(ctx context.Context, req tts.Request) error
	concatFn     func(ctx context.Context, inputs []string, outputPath, bitrate string) error
}

func NewBookConverter(engine tts.Engine, logger *zap.Logger) *BookConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &BookConverter{engine: engine, logger: logger}
	c.synthesizeFn = engine.Synthesize
	c.concatFn = media.NewProcessor(logger).Concat
	return c
}

// Convert renders every chapter of b and returns the chapter audio files
// in reading order. The scratch segment files are removed when done.
func (c *BookConverter) Convert(ctx context.Context, b *book.Book, opts BookToAudioOptions) ([]string, error) {
	if b == nil || len(b.Chapters) == 0 {
		return nil, fmt.Errorf("book has no chapters")
	}

	if opts.Format == "" {
		opts.Format = "mp3"
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	if opts.OutputDir == "" {
		opts.OutputDir = slugify(b.Title)
	}
	if opts.Language == "" {
		opts.Language = b.Language
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	chapterChunks := make([][]string, len(b.Chapters))
	totalChunks := 0
	for i, chapter := range b.Chapters {
		chapterChunks[i] = textutil.Chunk(chapter.Text, opts.ChunkSize)
		totalChunks += len(chapterChunks[i])
	}
	if totalChunks == 0 {
		return nil, fmt.Errorf("book contains no speakable text")
	}

	scratch, err := os.MkdirTemp("", "bookvox-convert-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	bar := newChunkProgress(opts.NoProgress, totalChunks)
	started := time.Now()
	c.logger.Info("converting book",
		zap.String("title", b.Title),
		zap.String("engine", c.engine.Name()),
		zap.Int("chapters", len(b.Chapters)),
		zap.Int("chunks", totalChunks))

	var outputs []string
	for i, chapter := range b.Chapters {
		chunks := chapterChunks[i]
		if len(chunks) == 0 {
			continue
		}

		var segments []string
		for j, chunk := range chunks {
			segment := filepath.Join(scratch, fmt.Sprintf("ch%03d_seg%03d.%s", i+1, j+1, opts.Format))
			err := c.synthesizeFn(ctx, tts.Request{
				Text:       chunk,
				OutputPath: segment,
				Language:   opts.Language,
				Voice:      opts.Voice,
				Rate:       opts.Rate,
			})
			if err != nil {
				return nil, fmt.Errorf("synthesize chapter %d chunk %d: %w", i+1, j+1, err)
			}
			segments = append(segments, segment)
			if bar != nil {
				_ = bar.Add(1)
			}
		}

		outputPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%02d-%s.%s", i+1, slugify(chapter.Title), opts.Format))
		if len(segments) == 1 {
			if err := moveFile(segments[0], outputPath); err != nil {
				return nil, fmt.Errorf("move chapter %d audio: %w", i+1, err)
			}
		} else if err := c.concatFn(ctx, segments, outputPath, opts.Bitrate); err != nil {
			return nil, fmt.Errorf("combine chapter %d segments: %w", i+1, err)
		}
		outputs = append(outputs, outputPath)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	c.logger.Info("book converted",
		zap.Int("files", len(outputs)),
		zap.Duration("elapsed", time.Since(started)))
	return outputs, nil
}

// moveFile relocates a finished segment out of the scratch dir. The scratch
// dir lives under the system temp dir, often a different filesystem from the
// output dir, where rename fails; fall back to a copy.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read segment: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write chapter audio: %w", err)
	}
	return os.Remove(src)
}

func newChunkProgress(noProgress bool, total int) *progressbar.ProgressBar {
	if noProgress || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription("Synthesizing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(input string) string {
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(input), "-"), "-")
	if slug == "" {
		return "untitled"
	}
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	return slug
}
