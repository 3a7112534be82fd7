// Package textutil normalizes ebook text before synthesis and splits it
// into engine-sized chunks on sentence boundaries.
package textutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	controlRe    = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]+[\s"')\]]*|[^.!?]+$`)
)

var unicodeReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "--",
	"…", "...",
	" ", " ",
)

// Clean collapses whitespace, maps typographic punctuation to ASCII and
// strips control characters.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = unicodeReplacer.Replace(text)
	text = controlRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitSentences splits on terminal punctuation, keeping the punctuation
// with its sentence. Input without terminal punctuation comes back whole.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	for _, match := range sentenceRe.FindAllString(text, -1) {
		if trimmed := strings.TrimSpace(match); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// Chunk splits cleaned text into pieces of at most size characters,
// breaking on sentence boundaries. A single sentence longer than size is
// emitted as its own oversized chunk rather than cut mid-word.
func Chunk(text string, size int) []string {
	text = Clean(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range SplitSentences(text) {
		if current.Len() > 0 && current.Len()+1+len(sentence) > size {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
