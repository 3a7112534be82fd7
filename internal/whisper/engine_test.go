package whisper

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFakeEngine creates a shell script that mimics whisper-cli: it finds
// the -of argument and writes the given transcript next to it.
func writeFakeEngine(t *testing.T, transcript string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake engine script requires a POSIX shell")
	}

	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-of" ]; then
    out="$2"
    shift
  fi
  shift
done
printf '%s' "` + transcript + `" > "$out.txt"
`
	path := filepath.Join(t.TempDir(), "fake-whisper")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestNewCLIEngineUsesEnvOverride(t *testing.T) {
	path := writeFakeEngine(t, "hi")
	t.Setenv(EnvEnginePath, path)

	engine, err := NewCLIEngine(nil)
	require.NoError(t, err)
	require.Equal(t, path, engine.Executable)
}

func TestNewCLIEngineRejectsMissingOverride(t *testing.T) {
	t.Setenv(EnvEnginePath, filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := NewCLIEngine(nil)
	require.Error(t, err)
}

func TestCLIEngineTranscribeReadsEngineOutput(t *testing.T) {
	t.Parallel()

	engine := &CLIEngine{Executable: writeFakeEngine(t, "  hello world \n")}

	audio := filepath.Join(t.TempDir(), "clip.wav")
	model := filepath.Join(t.TempDir(), "ggml-tiny.bin")
	require.NoError(t, os.WriteFile(audio, []byte("riff"), 0o644))
	require.NoError(t, os.WriteFile(model, []byte("ggml"), 0o644))

	text, err := engine.Transcribe(context.Background(), Request{
		AudioPath: audio,
		ModelPath: model,
		Language:  "en",
	})
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
}

func TestCLIEngineTranscribeValidatesRequest(t *testing.T) {
	t.Parallel()

	engine := &CLIEngine{Executable: "/bin/true"}

	_, err := engine.Transcribe(context.Background(), Request{ModelPath: "m.bin"})
	require.ErrorContains(t, err, "audio path")

	_, err = engine.Transcribe(context.Background(), Request{AudioPath: "a.wav"})
	require.ErrorContains(t, err, "model path")
}
