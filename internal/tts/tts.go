// Package tts turns chapter text into audio files. Engines are pluggable:
// Google Translate TTS over HTTP, espeak-ng and the macOS say command.
package tts

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

var ErrNoEngineAvailable = errors.New("no speech synthesis engine available")

type Request struct {
	Text       string
	OutputPath string
	Language   string
	Voice      string
	// Rate is words per minute; zero means the engine default.
	Rate int
}

type Engine interface {
	Name() string
	Available() bool
	Synthesize(ctx context.Context, req Request) error
}

func DefaultEngines(goos string) []Engine {
	engines := []Engine{newGoogleEngine(), newEspeakEngine()}
	if goos == "darwin" {
		engines = append(engines, newSayEngine())
	}
	return engines
}

// SelectEngine picks the preferred engine when named, otherwise the first
// available one in priority order.
func SelectEngine(engines []Engine, preferred string) (Engine, error) {
	if len(engines) == 0 {
		return nil, errors.New("no engines configured")
	}

	if preferred != "" && preferred != "auto" {
		for _, engine := range engines {
			if engine.Name() == preferred {
				if !engine.Available() {
					return nil, fmt.Errorf("requested engine %q is not available", preferred)
				}
				return engine, nil
			}
		}
		return nil, fmt.Errorf("unknown engine %q", preferred)
	}

	for _, engine := range engines {
		if engine.Available() {
			return engine, nil
		}
	}

	return nil, ErrNoEngineAvailable
}

func NewEngine(preferred string) (Engine, error) {
	return SelectEngine(DefaultEngines(runtime.GOOS), preferred)
}

func EngineNames(goos string) []string {
	engines := DefaultEngines(goos)
	names := make([]string, 0, len(engines))
	for _, engine := range engines {
		names = append(names, engine.Name())
	}
	return names
}
