package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOutsideGitRepo(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		return "", errors.New("not a git repository")
	}
	require.Equal(t, "0.1.0", resolveVersion("0.1.0", git))
}

func TestResolveOnReleaseTag(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		return "v0.1.0", nil
	}
	require.Equal(t, "0.1.0", resolveVersion("0.1.0", git))
}

func TestResolveWithCommitsAfterTag(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		if len(args) > 1 && args[1] == "--tags" && len(args) == 3 {
			return "", errors.New("no exact match")
		}
		return "v0.1.0-4-gabc1234", nil
	}
	require.Equal(t, "0.1.0-4-gabc1234", resolveVersion("0.1.0", git))
}

func TestResolveEmptyBase(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		return "", errors.New("no git")
	}
	require.Equal(t, "0.0.0", resolveVersion("", git))
}
