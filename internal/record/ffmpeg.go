package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ffmpegBackend captures via ffmpeg with an OS specific input format:
// pulse/alsa on linux, avfoundation on darwin.
type ffmpegBackend struct {
	format string
}

func (b *ffmpegBackend) Name() string {
	return "ffmpeg"
}

func (b *ffmpegBackend) Available() bool {
	return commandAvailable("ffmpeg")
}

func (b *ffmpegBackend) Record(ctx context.Context, cfg Config) error {
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	candidates := b.inputCandidates(cfg)

	var errs []error
	for _, candidate := range candidates {
		args := []string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y", "-f", candidate.format, "-i", candidate.input}
		if cfg.Duration > 0 {
			args = append(args, "-t", strconv.Itoa(int(cfg.Duration/time.Second)))
		}
		args = append(args,
			"-ac", strconv.Itoa(defaultChannels(cfg.Channels)),
			"-ar", strconv.Itoa(defaultSampleRate(cfg.SampleRate)),
			"-c:a", "pcm_s16le",
			cfg.OutputPath,
		)

		var cmd *exec.Cmd
		if cfg.Duration > 0 {
			cmd = exec.Command("ffmpeg", args...)
		} else {
			cmd = exec.CommandContext(ctx, "ffmpeg", args...)
		}
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr

		var err error
		if cfg.Duration > 0 {
			err = runTimedCommand(ctx, cmd, cfg.Duration+time.Second, cfg.Logger)
		} else {
			err = cmd.Run()
		}
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		errs = append(errs, fmt.Errorf("ffmpeg (%s/%s): %w", candidate.format, candidate.input, err))
	}

	return errors.Join(errs...)
}

type inputCandidate struct {
	format string
	input  string
}

func (b *ffmpegBackend) inputCandidates(cfg Config) []inputCandidate {
	if cfg.Format != "" {
		input := cfg.Input
		if input == "" {
			input = b.defaultInput(cfg.Format)
		}
		return []inputCandidate{{format: cfg.Format, input: input}}
	}

	if b.format == "avfoundation" {
		input := cfg.Input
		if input == "" {
			input = ":0"
		}
		return []inputCandidate{{format: "avfoundation", input: input}}
	}

	input := cfg.Input
	if input == "" {
		input = "default"
	}
	return []inputCandidate{
		{format: "pulse", input: input},
		{format: "alsa", input: input},
	}
}

func (b *ffmpegBackend) defaultInput(format string) string {
	if format == "avfoundation" {
		return ":0"
	}
	return "default"
}

func (b *ffmpegBackend) ListDevices(ctx context.Context) (string, error) {
	if b.format == "avfoundation" {
		// ffmpeg exits non-zero after -list_devices; the listing itself
		// arrives on stderr, so keep whatever output came back.
		cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-f", "avfoundation", "-list_devices", "true", "-i", "")
		out, err := cmd.CombinedOutput()
		listing := strings.TrimSpace(string(out))
		if listing == "" && err != nil {
			return "", fmt.Errorf("ffmpeg device listing failed: %w", err)
		}
		return listing, nil
	}

	var sections []string
	if commandAvailable("pactl") {
		if out, err := commandOutput(ctx, "pactl", "list", "short", "sources"); err == nil {
			sections = append(sections, "PulseAudio/PipeWire sources:\n"+out)
		}
	}
	if commandAvailable("arecord") {
		if out, err := commandOutput(ctx, "arecord", "-L"); err == nil {
			sections = append(sections, "ALSA devices:\n"+out)
		}
	}
	if len(sections) == 0 {
		return "", errors.New("no device listing command available")
	}
	return strings.Join(sections, "\n\n"), nil
}
