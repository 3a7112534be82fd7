package tts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubTTSEngine struct {
	name      string
	available bool
}

func (s stubTTSEngine) Name() string                            { return s.name }
func (s stubTTSEngine) Available() bool                         { return s.available }
func (s stubTTSEngine) Synthesize(context.Context, Request) error { return nil }

func TestSelectEnginePrefersFirstAvailable(t *testing.T) {
	t.Parallel()

	engine, err := SelectEngine([]Engine{
		stubTTSEngine{name: "googletts", available: false},
		stubTTSEngine{name: "espeak", available: true},
	}, "auto")
	require.NoError(t, err)
	require.Equal(t, "espeak", engine.Name())
}

func TestSelectEngineHonorsPreferred(t *testing.T) {
	t.Parallel()

	engine, err := SelectEngine([]Engine{
		stubTTSEngine{name: "googletts", available: true},
		stubTTSEngine{name: "espeak", available: true},
	}, "espeak")
	require.NoError(t, err)
	require.Equal(t, "espeak", engine.Name())
}

func TestSelectEnginePreferredUnavailable(t *testing.T) {
	t.Parallel()

	_, err := SelectEngine([]Engine{
		stubTTSEngine{name: "espeak", available: false},
	}, "espeak")
	require.Error(t, err)
}

func TestSelectEngineUnknownName(t *testing.T) {
	t.Parallel()

	_, err := SelectEngine([]Engine{
		stubTTSEngine{name: "espeak", available: true},
	}, "festival")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown engine "festival"`)
}

func TestSelectEngineNoneAvailable(t *testing.T) {
	t.Parallel()

	_, err := SelectEngine([]Engine{
		stubTTSEngine{name: "googletts", available: false},
		stubTTSEngine{name: "espeak", available: false},
	}, "auto")
	require.ErrorIs(t, err, ErrNoEngineAvailable)
}

func TestDefaultEnginesPerOS(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"googletts", "espeak"}, EngineNames("linux"))
	require.Equal(t, []string{"googletts", "espeak", "say"}, EngineNames("darwin"))
}

func TestSynthesizeRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, engine := range []Engine{newGoogleEngine(), newEspeakEngine(), newSayEngine()} {
		err := engine.Synthesize(context.Background(), Request{Text: "", OutputPath: "/tmp/out.mp3"})
		require.Error(t, err)

		err = engine.Synthesize(context.Background(), Request{Text: "hello", OutputPath: ""})
		require.Error(t, err)
	}
}

func TestPlaceAudioSameExtensionMoves(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "generated.mp3")
	require.NoError(t, os.WriteFile(src, []byte("mp3 bytes"), 0o644))

	dest := filepath.Join(dir, "nested", "final.mp3")
	require.NoError(t, placeAudio(context.Background(), src, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("mp3 bytes"), got)
}
