// Package media shells out to ffmpeg for audio format conversion, file
// concatenation and segmentation.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var ErrFFmpegMissing = errors.New("ffmpeg is not installed")

type Processor struct {
	Logger *zap.Logger
}

func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{Logger: logger}
}

func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Convert transcodes inputPath into outputPath; the target codec follows
// the output extension (libmp3lame for .mp3, pcm for .wav, aac otherwise).
func (p *Processor) Convert(ctx context.Context, inputPath, outputPath, bitrate string) error {
	if !Available() {
		return ErrFFmpegMissing
	}
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(outputPath)), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y", "-i", inputPath}
	args = append(args, codecArgs(outputPath, bitrate)...)
	args = append(args, outputPath)

	return p.run(ctx, args)
}

// Concat merges the given audio files in order into outputPath using the
// concat demuxer. The list file is written next to the output and removed
// when done.
func (p *Processor) Concat(ctx context.Context, inputs []string, outputPath, bitrate string) error {
	if len(inputs) == 0 {
		return errors.New("no audio files to combine")
	}
	if !Available() {
		return ErrFFmpegMissing
	}
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(outputPath)), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	listFile, err := writeConcatList(inputs, filepath.Dir(outputPath))
	if err != nil {
		return err
	}
	defer os.Remove(listFile)

	args := []string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y", "-f", "concat", "-safe", "0", "-i", listFile}
	args = append(args, codecArgs(outputPath, bitrate)...)
	args = append(args, outputPath)

	if err := p.run(ctx, args); err != nil {
		return err
	}
	p.Logger.Info("combined audio files", zap.Int("count", len(inputs)), zap.String("output", outputPath))
	return nil
}

// Split cuts inputPath into segments of segmentSeconds each, named after
// the input with a numeric suffix, and returns the segment paths in order.
func (p *Processor) Split(ctx context.Context, inputPath, outputDir string, segmentSeconds int, bitrate string) ([]string, error) {
	if segmentSeconds <= 0 {
		return nil, fmt.Errorf("segment length must be positive, got %d", segmentSeconds)
	}
	if !Available() {
		return nil, ErrFFmpegMissing
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	ext := strings.TrimPrefix(filepath.Ext(inputPath), ".")
	if ext == "" {
		ext = "mp3"
	}
	pattern := filepath.Join(outputDir, fmt.Sprintf("%s_%%03d.%s", stem, ext))

	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-i", inputPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-map", "0:a",
	}
	args = append(args, codecArgs(pattern, bitrate)...)
	args = append(args, pattern)

	if err := p.run(ctx, args); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}

	var segments []string
	prefix := stem + "_"
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, "."+ext) {
			segments = append(segments, filepath.Join(outputDir, name))
		}
	}
	sort.Strings(segments)

	p.Logger.Info("split audio file", zap.String("input", inputPath), zap.Int("segments", len(segments)))
	return segments, nil
}

func (p *Processor) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	p.Logger.Debug("running ffmpeg", zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if errText != "" {
			return fmt.Errorf("ffmpeg failed: %w (%s)", err, errText)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

func codecArgs(outputPath, bitrate string) []string {
	if bitrate == "" {
		bitrate = "192k"
	}

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp3":
		return []string{"-c:a", "libmp3lame", "-b:a", bitrate}
	case ".wav":
		return []string{"-c:a", "pcm_s16le"}
	default:
		return []string{"-c:a", "aac", "-b:a", bitrate}
	}
}

// writeConcatList emits the ffmpeg concat demuxer file list. Single quotes
// in paths are escaped the way the demuxer expects.
func writeConcatList(inputs []string, dir string) (string, error) {
	f, err := os.CreateTemp(dir, "concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("resolve input path %s: %w", input, err)
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write concat list: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close concat list: %w", err)
	}
	return f.Name(), nil
}
