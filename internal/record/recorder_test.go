package record

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	name      string
	available bool
	recordErr error
	calls     int
}

func (s *stubBackend) Name() string    { return s.name }
func (s *stubBackend) Available() bool { return s.available }
func (s *stubBackend) Record(context.Context, Config) error {
	s.calls++
	return s.recordErr
}
func (s *stubBackend) ListDevices(context.Context) (string, error) { return "", nil }

func TestSelectBackendUsesPriorityOrder(t *testing.T) {
	t.Parallel()

	backend, err := SelectBackend([]Backend{
		&stubBackend{name: "pw-record", available: false},
		&stubBackend{name: "arecord", available: true},
		&stubBackend{name: "ffmpeg", available: true},
	}, "auto")
	require.NoError(t, err)
	require.Equal(t, "arecord", backend.Name())
}

func TestSelectBackendUsesPreferredWhenAvailable(t *testing.T) {
	t.Parallel()

	backend, err := SelectBackend([]Backend{
		&stubBackend{name: "pw-record", available: true},
		&stubBackend{name: "ffmpeg", available: true},
	}, "ffmpeg")
	require.NoError(t, err)
	require.Equal(t, "ffmpeg", backend.Name())
}

func TestSelectBackendPreferredUnavailable(t *testing.T) {
	t.Parallel()

	_, err := SelectBackend([]Backend{
		&stubBackend{name: "pw-record", available: false},
	}, "pw-record")
	require.Error(t, err)
}

func TestSelectBackendNoneAvailable(t *testing.T) {
	t.Parallel()

	_, err := SelectBackend([]Backend{
		&stubBackend{name: "pw-record", available: false},
		&stubBackend{name: "arecord", available: false},
	}, "auto")
	require.ErrorIs(t, err, ErrNoBackendAvailable)
}

func TestCaptureFallsBackToNextBackend(t *testing.T) {
	t.Parallel()

	broken := &stubBackend{name: "pw-record", available: true, recordErr: errors.New("device busy")}
	working := &stubBackend{name: "arecord", available: true}

	name, err := capture(context.Background(), []Backend{broken, working}, "auto", Config{})
	require.NoError(t, err)
	require.Equal(t, "arecord", name)
	require.Equal(t, 1, broken.calls)
	require.Equal(t, 1, working.calls)
}

func TestCapturePreferredBackendTriedFirst(t *testing.T) {
	t.Parallel()

	first := &stubBackend{name: "pw-record", available: true}
	second := &stubBackend{name: "ffmpeg", available: true}

	name, err := capture(context.Background(), []Backend{first, second}, "ffmpeg", Config{})
	require.NoError(t, err)
	require.Equal(t, "ffmpeg", name)
	require.Zero(t, first.calls)
}

func TestCaptureAllBackendsFail(t *testing.T) {
	t.Parallel()

	_, err := capture(context.Background(), []Backend{
		&stubBackend{name: "pw-record", available: true, recordErr: errors.New("boom")},
		&stubBackend{name: "arecord", available: false},
	}, "auto", Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
	require.Contains(t, err.Error(), "arecord")
}

func TestCaptureUnknownPreferredBackend(t *testing.T) {
	t.Parallel()

	_, err := capture(context.Background(), []Backend{
		&stubBackend{name: "pw-record", available: true},
	}, "jack", Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown backend "jack"`)
}

func TestDefaultBackendsPerOS(t *testing.T) {
	t.Parallel()

	linux := DefaultBackends("linux")
	require.Len(t, linux, 3)
	require.Equal(t, "pw-record", linux[0].Name())

	darwin := DefaultBackends("darwin")
	require.Len(t, darwin, 1)
	require.Equal(t, "ffmpeg", darwin[0].Name())

	require.Empty(t, DefaultBackends("windows"))
}
