// Package book reads ebook files into a common chapter-oriented shape.
// EPUB, PDF and plain text are supported; anything else is rejected up
// front.
package book

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported ebook format")

type Chapter struct {
	Title string
	Text  string
}

type Book struct {
	Title    string
	Author   string
	Language string
	Format   string
	Chapters []Chapter
}

// Open loads the whole book, metadata and chapter text, dispatching on the
// file extension.
func Open(path string, logger *zap.Logger) (*Book, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ebook file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		b   *Book
		err error
	)
	switch ext {
	case ".epub":
		b, err = openEPUB(path)
	case ".pdf":
		b, err = openPDF(path)
	case ".txt":
		b, err = openText(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	b.Format = ext
	if b.Title == "" {
		b.Title = strings.TrimSuffix(filepath.Base(path), ext)
	}
	if b.Author == "" {
		b.Author = "Unknown"
	}
	if b.Language == "" {
		b.Language = "en"
	}

	logger.Debug("opened ebook",
		zap.String("path", path),
		zap.String("title", b.Title),
		zap.Int("chapters", len(b.Chapters)))
	return b, nil
}

// looksLikeHeading matches short standalone lines such as "Chapter 3" or
// an all-caps title.
func looksLikeHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 80 {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"chapter ", "part ", "book ", "prologue", "epilogue", "appendix"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return trimmed == strings.ToUpper(trimmed) && strings.ContainsAny(trimmed, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}
