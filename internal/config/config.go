// Package config persists user defaults as JSON under the platform config
// directory. Flags still win; the file only changes what they default to.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookvox/bookvox/internal/platform"
)

const fileName = "config.json"

type Config struct {
	TTSEngine       string `json:"tts_engine"`
	Voice           string `json:"voice"`
	Language        string `json:"language"`
	RateWPM         int    `json:"rate_wpm"`
	ChunkSize       int    `json:"chunk_size"`
	OutputFormat    string `json:"output_format"`
	OutputBitrate   string `json:"output_bitrate"`
	WhisperModel    string `json:"whisper_model"`
	WhisperLanguage string `json:"whisper_language"`
	RecordBackend   string `json:"record_backend"`
}

func Default() Config {
	return Config{
		TTSEngine:       "auto",
		Language:        "en",
		RateWPM:         150,
		ChunkSize:       2000,
		OutputFormat:    "mp3",
		OutputBitrate:   "192k",
		WhisperModel:    "base",
		WhisperLanguage: "auto",
		RecordBackend:   "auto",
	}
}

func DefaultPath() (string, error) {
	dir, err := platform.ResolveConfigDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads path and merges it over the defaults. A missing file is not
// an error; a corrupt one is.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config atomically via a sibling temp file.
func (c Config) Save(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+fileName+".*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("chmod config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("move config into place: %w", err)
	}
	return nil
}
