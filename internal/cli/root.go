package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/bookvox/bookvox/internal/config"
	"github.com/bookvox/bookvox/internal/logging"
	"github.com/bookvox/bookvox/internal/transcriber"
	"github.com/bookvox/bookvox/internal/version"
)

// transcriberAPI is what the commands need from a constructed transcriber;
// tests substitute it.
type transcriberAPI interface {
	Transcribe(ctx context.Context, audioPath, outputPath string) (string, error)
	RecordAndTranscribe(ctx context.Context, duration time.Duration, outputAudioPath, outputTextPath string) (string, error)
	ListModels() []string
}

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	configPath string

	// Empty flag values fall back to the loaded config.
	model        string
	modelDir     string
	language     string
	autoDownload bool
	backend      string
	input        string

	ttsEngine string
	voice     string
	rate      int
	format    string
	bitrate   string
	chunkSize int

	cfg    config.Config
	logger *zap.Logger
	out    io.Writer

	newTranscriberFn func(ctx context.Context) (transcriberAPI, error)
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		autoDownload: true,
		out:          os.Stdout,
	}
	app.newTranscriberFn = app.buildTranscriber

	cmd := &cobra.Command{
		Use:           "bookvox",
		Short:         "Convert ebooks to audiobooks and audio recordings back to text",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger

			path := app.configPath
			if path == "" {
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", false, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", false, "Enable JSON logging")
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", false, "Disable progress indicators")
	cmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file path (default: platform config dir)")

	cmd.AddCommand(newSpeakCmd(app))
	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newListenCmd(app))
	cmd.AddCommand(newModelsCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newDevicesCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindModelFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.model, "model", "", "Whisper model name or ggml file path (default from config)")
	cmd.Flags().StringVar(&app.modelDir, "model-dir", "", "Directory where models are stored")
	cmd.Flags().StringVar(&app.language, "language", "", "Language code (auto|en|de|...) for transcription")
	cmd.Flags().BoolVar(&app.autoDownload, "auto-download", app.autoDownload, "Automatically download missing models")
}

func bindSynthesisFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.ttsEngine, "engine", "", "Speech engine: auto|googletts|espeak|say (default from config)")
	cmd.Flags().StringVar(&app.voice, "voice", "", "Voice name for the selected engine")
	cmd.Flags().IntVar(&app.rate, "rate", 0, "Speech rate in words per minute")
	cmd.Flags().StringVar(&app.format, "format", "", "Output audio format: mp3|wav|m4a (default from config)")
	cmd.Flags().StringVar(&app.bitrate, "bitrate", "", "Output audio bitrate, e.g. 192k")
	cmd.Flags().IntVar(&app.chunkSize, "chunk-size", 0, "Maximum characters per synthesized chunk")
}

func bindRecordingFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.backend, "backend", "", "Recording backend: auto|pw-record|arecord|ffmpeg")
	cmd.Flags().StringVar(&app.input, "input", "", "Input device (run \"bookvox devices\" to list)")
}

func (a *appState) buildTranscriber(ctx context.Context) (transcriberAPI, error) {
	return transcriber.New(ctx, transcriber.Config{
		Model:        a.modelName(),
		ModelDir:     a.modelDir,
		Language:     a.transcriptionLanguage(),
		AutoDownload: a.autoDownload,
		Backend:      a.recordBackend(),
		Input:        a.input,
		NoProgress:   a.noProgress,
	}, a.log())
}

func (a *appState) modelName() string {
	if a.model != "" {
		return a.model
	}
	return a.cfg.WhisperModel
}

func (a *appState) transcriptionLanguage() string {
	if a.language != "" {
		return a.language
	}
	return a.cfg.WhisperLanguage
}

func (a *appState) recordBackend() string {
	if a.backend != "" {
		return a.backend
	}
	return a.cfg.RecordBackend
}

func (a *appState) ttsEngineName() string {
	if a.ttsEngine != "" {
		return a.ttsEngine
	}
	return a.cfg.TTSEngine
}

func (a *appState) voiceName() string {
	if a.voice != "" {
		return a.voice
	}
	return a.cfg.Voice
}

func (a *appState) speechRate() int {
	if a.rate > 0 {
		return a.rate
	}
	return a.cfg.RateWPM
}

func (a *appState) outputFormat() string {
	if a.format != "" {
		return a.format
	}
	return a.cfg.OutputFormat
}

func (a *appState) outputBitrate() string {
	if a.bitrate != "" {
		return a.bitrate
	}
	return a.cfg.OutputBitrate
}

func (a *appState) textChunkSize() int {
	if a.chunkSize > 0 {
		return a.chunkSize
	}
	return a.cfg.ChunkSize
}

func (a *appState) synthesisLanguage() string {
	if a.language != "" {
		return a.language
	}
	return a.cfg.Language
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
