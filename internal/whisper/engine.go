package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EnvEnginePath overrides PATH lookup of the whisper-cli executable.
const EnvEnginePath = "BOOKVOX_WHISPER_PATH"

type Request struct {
	AudioPath string
	ModelPath string
	Language  string
	// Options holds extra whisper-cli flags forwarded verbatim,
	// e.g. {"--best-of": "5"}. Values may be empty for boolean flags.
	Options map[string]string
}

type Engine interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}

// CLIEngine runs the whisper.cpp command line binary as a subprocess.
type CLIEngine struct {
	Executable string
	Logger     *zap.Logger
}

func NewCLIEngine(logger *zap.Logger) (*CLIEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if override := strings.TrimSpace(os.Getenv(EnvEnginePath)); override != "" {
		if err := ensureExecutable(override); err != nil {
			return nil, fmt.Errorf("%s is not executable: %w", EnvEnginePath, err)
		}
		return &CLIEngine{Executable: override, Logger: logger}, nil
	}

	path, err := exec.LookPath(engineBinaryName())
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH; install whisper.cpp or set %s: %w", engineBinaryName(), EnvEnginePath, err)
	}

	return &CLIEngine{Executable: path, Logger: logger}, nil
}

func (e *CLIEngine) Transcribe(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return "", errors.New("audio path is required")
	}
	if strings.TrimSpace(req.ModelPath) == "" {
		return "", errors.New("model path is required")
	}

	if err := ensureExecutable(e.Executable); err != nil {
		return "", fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	outBase := filepath.Join(os.TempDir(), fmt.Sprintf("bookvox-%d", time.Now().UnixNano()))
	txtOut := outBase + ".txt"

	args := []string{"-m", req.ModelPath, "-f", req.AudioPath, "-nt", "-otxt", "-of", outBase}
	lang := strings.TrimSpace(req.Language)
	if lang != "" && lang != "auto" {
		args = append(args, "-l", lang)
	}
	args = append(args, extraFlags(req.Options)...)

	cmd := exec.CommandContext(ctx, e.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	e.logger().Debug("running whisper engine", zap.String("engine", e.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if errText != "" {
			return "", fmt.Errorf("whisper transcribe failed: %w (%s)", err, errText)
		}
		return "", fmt.Errorf("whisper transcribe failed: %w", err)
	}

	defer os.Remove(txtOut)
	content, err := os.ReadFile(txtOut)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func (e *CLIEngine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func extraFlags(options map[string]string) []string {
	if len(options) == 0 {
		return nil
	}

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	flags := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		flags = append(flags, key)
		if value := options[key]; value != "" {
			flags = append(flags, value)
		}
	}
	return flags
}

func engineBinaryName() string {
	if runtime.GOOS == "windows" {
		return "whisper-cli.exe"
	}
	return "whisper-cli"
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
