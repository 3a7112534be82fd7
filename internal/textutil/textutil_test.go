package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanNormalizesTypography(t *testing.T) {
	t.Parallel()

	in := "“Well,”  she   said — ‘maybe’…"
	require.Equal(t, `"Well," she said -- 'maybe'...`, Clean(in))
}

func TestCleanStripsControlCharacters(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ab", Clean("a\x00\x07b"))
	require.Equal(t, "", Clean(""))
	require.Equal(t, "", Clean("  \t\n "))
}

func TestSplitSentencesKeepsPunctuation(t *testing.T) {
	t.Parallel()

	got := SplitSentences("It was late. Nobody called! Why not? The end")
	require.Equal(t, []string{"It was late.", "Nobody called!", "Why not?", "The end"}, got)
}

func TestSplitSentencesEmpty(t *testing.T) {
	t.Parallel()

	require.Nil(t, SplitSentences("   "))
}

func TestChunkRespectsSizeOnSentenceBoundaries(t *testing.T) {
	t.Parallel()

	text := "One two three. Four five six. Seven eight nine."
	chunks := Chunk(text, 20)
	require.Equal(t, []string{"One two three.", "Four five six.", "Seven eight nine."}, chunks)

	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 20)
	}
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"Short."}, Chunk("Short.", 2000))
}

func TestChunkOversizedSentenceStaysWhole(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 50) + "end."
	chunks := Chunk(long, 40)
	require.Len(t, chunks, 1, "a single sentence is never cut mid-word")
}

func TestChunkReassemblesLosslessly(t *testing.T) {
	t.Parallel()

	text := "Alpha beta. Gamma delta. Epsilon zeta. Eta theta."
	chunks := Chunk(text, 25)
	require.Equal(t, text, strings.Join(chunks, " "))
}
