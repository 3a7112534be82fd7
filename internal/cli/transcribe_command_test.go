package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranscribeCommandPrintsTranscript(t *testing.T) {
	t.Parallel()

	var gotAudio, gotOutput string
	app := newStubApp(&stubTranscriber{
		transcribeFn: func(_ context.Context, audioPath, outputPath string) (string, error) {
			gotAudio = audioPath
			gotOutput = outputPath
			return "hello from the recording", nil
		},
	})

	out, err := executeCommand(t, newTranscribeCmd(app), "/tmp/audio.wav")
	require.NoError(t, err)
	require.Equal(t, "hello from the recording\n", out)
	require.Equal(t, "/tmp/audio.wav", gotAudio)
	require.Empty(t, gotOutput)
}

func TestTranscribeCommandForwardsOutputPath(t *testing.T) {
	t.Parallel()

	var gotOutput string
	app := newStubApp(&stubTranscriber{
		transcribeFn: func(_ context.Context, _, outputPath string) (string, error) {
			gotOutput = outputPath
			return "text", nil
		},
	})

	_, err := executeCommand(t, newTranscribeCmd(app), "--output", "/tmp/out.txt", "/tmp/audio.wav")
	require.NoError(t, err)
	require.Equal(t, "/tmp/out.txt", gotOutput)
}

func TestTranscribeCommandRegistersFlags(t *testing.T) {
	t.Parallel()

	cmd := newTranscribeCmd(newStubApp(&stubTranscriber{}))
	for _, name := range []string{"output", "markdown", "title", "split", "model", "model-dir", "language", "auto-download"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	require.Equal(t, "0s", cmd.Flags().Lookup("split").DefValue)
}

func TestTranscribeCommandRequiresInput(t *testing.T) {
	t.Parallel()

	app := newStubApp(&stubTranscriber{})
	_, err := executeCommand(t, newTranscribeCmd(app))
	require.Error(t, err)
}

func TestTranscribeCommandMarkdownDocument(t *testing.T) {
	t.Parallel()

	app := newStubApp(&stubTranscriber{
		transcribeFn: func(_ context.Context, audioPath, _ string) (string, error) {
			return "content of " + filepath.Base(audioPath), nil
		},
	})

	out, err := executeCommand(t, newTranscribeCmd(app),
		"--markdown", "--title", "Meeting Notes", "/tmp/a.wav", "/tmp/b.wav")
	require.NoError(t, err)
	require.Contains(t, out, "# Meeting Notes")
	require.Contains(t, out, "content of a.wav")
	require.Contains(t, out, "content of b.wav")
}

func TestTranscribeCommandWritesDocumentFile(t *testing.T) {
	t.Parallel()

	app := newStubApp(&stubTranscriber{
		transcribeFn: func(_ context.Context, _, _ string) (string, error) {
			return "dictated text", nil
		},
	})

	target := filepath.Join(t.TempDir(), "notes.md")
	out, err := executeCommand(t, newTranscribeCmd(app),
		"--markdown", "--output", target, "/tmp/a.wav")
	require.NoError(t, err)
	require.Contains(t, out, target)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(content), "dictated text")
}
