package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultModelDirForLinuxWithXDG(t *testing.T) {
	t.Parallel()

	dir, err := DefaultModelDirFor("linux", "/home/dev", "/tmp/xdg-data")
	require.NoError(t, err)
	require.Equal(t, "/tmp/xdg-data/bookvox/models", dir)
}

func TestDefaultModelDirForLinuxWithoutXDG(t *testing.T) {
	t.Parallel()

	dir, err := DefaultModelDirFor("linux", "/home/dev", "")
	require.NoError(t, err)
	require.Equal(t, "/home/dev/.local/share/bookvox/models", dir)
}

func TestDefaultModelDirForMacOS(t *testing.T) {
	t.Parallel()

	dir, err := DefaultModelDirFor("darwin", "/Users/dev", "")
	require.NoError(t, err)
	require.Equal(t, "/Users/dev/Library/Application Support/bookvox/models", dir)
}

func TestDefaultRecordingDirFor(t *testing.T) {
	t.Parallel()

	dir, err := DefaultRecordingDirFor("linux", "/home/dev", "")
	require.NoError(t, err)
	require.Equal(t, "/home/dev/.local/share/bookvox/recordings", dir)
}

func TestDefaultConfigDirForLinuxWithXDG(t *testing.T) {
	t.Parallel()

	dir, err := DefaultConfigDirFor("linux", "/home/dev", "/tmp/xdg-config")
	require.NoError(t, err)
	require.Equal(t, "/tmp/xdg-config/bookvox", dir)
}

func TestDefaultDirsRejectUnsupportedOS(t *testing.T) {
	t.Parallel()

	_, err := DefaultModelDirFor("windows", "/Users/dev", "")
	require.Error(t, err)

	_, err = DefaultConfigDirFor("plan9", "/Users/dev", "")
	require.Error(t, err)
}

func TestResolveModelDirHonorsOverride(t *testing.T) {
	t.Parallel()

	dir, err := ResolveModelDir("/opt/models/")
	require.NoError(t, err)
	require.Equal(t, "/opt/models", dir)
}
