// Package transcriber wraps the whisper runtime behind a small blocking
// API: construct once with a named model, then transcribe files or record
// from the microphone and transcribe the capture.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bookvox/bookvox/internal/download"
	"github.com/bookvox/bookvox/internal/platform"
	"github.com/bookvox/bookvox/internal/record"
	"github.com/bookvox/bookvox/internal/whisper"
	"go.uber.org/zap"
)

type Config struct {
	// Model is a catalog name (see whisper.ModelNames) or a ggml file path.
	Model string
	// ModelDir overrides where named model files are stored.
	ModelDir string
	// Language is an optional decode hint, forwarded verbatim to the
	// runtime; empty or "auto" means autodetect. An unsupported code is
	// rejected by the runtime, not by us.
	Language string
	// Options holds extra runtime flags forwarded on every decode call.
	Options map[string]string
	// AutoDownload fetches a missing named model during construction.
	AutoDownload bool
	// Backend selects the capture backend for RecordAndTranscribe.
	Backend string
	// Input names the capture device handed to the backend; empty means
	// the backend's default device.
	Input      string
	NoProgress bool
}

type recordFunc func(ctx context.Context, path string, duration time.Duration) error

// Transcriber owns one resolved model and one runtime handle for its whole
// lifetime. There is no reload path: if construction fails the value is
// unusable and a new one must be built.
type Transcriber struct {
	cfg     Config
	engine  whisper.Engine
	model   whisper.ResolvedModel
	record  recordFunc
	capture func(ctx context.Context, preferred string, cfg record.Config) (string, error)
	logger  *zap.Logger
}

// New verifies the whisper runtime and makes the configured model ready
// before returning. Failures are fail-fast: a missing runtime surfaces as
// ErrDependencyMissing, everything around the model as *ModelLoadError.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Transcriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = whisper.DefaultModel
	}

	engine, err := whisper.NewCLIEngine(logger)
	if err != nil {
		logger.Error("whisper runtime unavailable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDependencyMissing, err)
	}

	model, err := ensureModel(ctx, cfg, logger)
	if err != nil {
		logger.Error("model load failed", zap.String("model", cfg.Model), zap.Error(err))
		return nil, &ModelLoadError{Model: cfg.Model, Err: err}
	}
	logger.Info("model ready", zap.String("model", cfg.Model), zap.String("path", model.Path))

	t := &Transcriber{
		cfg:     cfg,
		engine:  engine,
		model:   model,
		capture: record.Capture,
		logger:  logger,
	}
	t.record = t.captureAudio
	return t, nil
}

func ensureModel(ctx context.Context, cfg Config, logger *zap.Logger) (whisper.ResolvedModel, error) {
	modelDir, err := platform.ResolveModelDir(cfg.ModelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("create model directory %s: %w", modelDir, err)
	}

	resolved, err := whisper.ResolveModel(cfg.Model, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if !resolved.NeedsDownload {
		return resolved, nil
	}
	if !cfg.AutoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model file missing at %s; run `bookvox setup --model %s` or enable auto-download", resolved.Path, resolved.Name)
	}

	logger.Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     cfg.NoProgress,
		Logger:         logger,
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}

// Transcribe decodes audioPath and returns the text exactly as the runtime
// produced it. When outputPath is non-empty the text is also persisted
// there as UTF-8, parents created as needed.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, outputPath string) (string, error) {
	audioPath = filepath.Clean(audioPath)
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, audioPath)
	}

	options := make(map[string]string, len(t.cfg.Options))
	for key, value := range t.cfg.Options {
		options[key] = value
	}

	t.logger.Info("transcribing",
		zap.String("audio", audioPath),
		zap.String("model", t.model.Path),
		zap.String("language", t.cfg.Language))
	started := time.Now()

	text, err := t.engine.Transcribe(ctx, whisper.Request{
		AudioPath: audioPath,
		ModelPath: t.model.Path,
		Language:  t.cfg.Language,
		Options:   options,
	})
	if err != nil {
		t.logger.Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", &TranscriptionError{Err: err}
	}
	t.logger.Info("transcription finished", zap.Duration("elapsed", time.Since(started)))

	if outputPath != "" {
		if err := writeTextFile(outputPath, text); err != nil {
			return "", err
		}
		t.logger.Info("transcript saved", zap.String("path", outputPath))
	}

	return text, nil
}

// RecordAndTranscribe captures duration seconds of microphone audio, then
// transcribes the capture. With an empty outputAudioPath a temporary wav is
// used and removed afterward regardless of outcome.
func (t *Transcriber) RecordAndTranscribe(ctx context.Context, duration time.Duration, outputAudioPath, outputTextPath string) (string, error) {
	if duration <= 0 {
		return "", &TranscriptionError{Err: fmt.Errorf("duration must be positive, got %s", duration)}
	}

	audioPath := outputAudioPath
	if audioPath == "" {
		scratch, err := os.CreateTemp("", "bookvox-capture-*.wav")
		if err != nil {
			return "", &TranscriptionError{Err: fmt.Errorf("create temp recording: %w", err)}
		}
		audioPath = scratch.Name()
		_ = scratch.Close()
		defer func() {
			if err := os.Remove(audioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				t.logger.Warn("failed to remove temp recording", zap.String("path", audioPath), zap.Error(err))
			}
		}()
	}

	t.logger.Info("recording", zap.Duration("duration", duration), zap.String("output", audioPath))
	if err := t.record(ctx, audioPath, duration); err != nil {
		return "", &TranscriptionError{Err: err}
	}

	text, err := t.Transcribe(ctx, audioPath, outputTextPath)
	if err != nil {
		var trErr *TranscriptionError
		if errors.As(err, &trErr) {
			return "", err
		}
		return "", &TranscriptionError{Err: err}
	}
	return text, nil
}

// ListModels reports the known model identifiers in catalog order. The list
// is fixed; nothing here checks what is actually installed.
func (t *Transcriber) ListModels() []string {
	return whisper.ModelNames()
}

// ModelPath reports the resolved model file in use.
func (t *Transcriber) ModelPath() string {
	return t.model.Path
}

func (t *Transcriber) captureAudio(ctx context.Context, path string, duration time.Duration) error {
	backend, err := t.capture(ctx, t.cfg.Backend, record.Config{
		OutputPath: path,
		Duration:   duration,
		SampleRate: 16000,
		Channels:   1,
		Input:      t.cfg.Input,
		Logger:     t.logger,
	})
	if err != nil {
		return err
	}
	t.logger.Debug("recording finished", zap.String("backend", backend), zap.String("path", path))
	return nil
}

// writeTextFile persists via a sibling temp file and an atomic rename so a
// crash mid-write never leaves a truncated transcript behind.
func writeTextFile(path string, text string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.WriteString(text); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close transcript: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod transcript: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move transcript into place: %w", err)
	}

	success = true
	return nil
}
