package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// stubTranscriber satisfies transcriberAPI without touching whisper-cli.
type stubTranscriber struct {
	transcribeFn func(ctx context.Context, audioPath, outputPath string) (string, error)
	recordFn     func(ctx context.Context, duration time.Duration, audioPath, textPath string) (string, error)
	models       []string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath, outputPath string) (string, error) {
	if s.transcribeFn == nil {
		return "", nil
	}
	return s.transcribeFn(ctx, audioPath, outputPath)
}

func (s *stubTranscriber) RecordAndTranscribe(ctx context.Context, duration time.Duration, audioPath, textPath string) (string, error) {
	if s.recordFn == nil {
		return "", nil
	}
	return s.recordFn(ctx, duration, audioPath, textPath)
}

func (s *stubTranscriber) ListModels() []string { return s.models }

func newStubApp(tr *stubTranscriber) *appState {
	return &appState{
		newTranscriberFn: func(context.Context) (transcriberAPI, error) {
			return tr, nil
		},
	}
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}
