package book

import (
	"fmt"
	"os"
	"strings"
)

func openText(path string) (*Book, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	b := &Book{}

	var current strings.Builder
	currentTitle := ""
	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		title := currentTitle
		if title == "" {
			title = fmt.Sprintf("Chapter %d", len(b.Chapters)+1)
		}
		b.Chapters = append(b.Chapters, Chapter{Title: title, Text: text})
	}

	for _, line := range strings.Split(content, "\n") {
		if looksLikeHeading(line) {
			flush()
			currentTitle = strings.TrimSpace(line)
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()

	if len(b.Chapters) == 0 {
		return nil, fmt.Errorf("text file %s is empty", path)
	}
	return b, nil
}
