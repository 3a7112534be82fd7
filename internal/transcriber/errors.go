package transcriber

import (
	"errors"
	"fmt"
)

var (
	// ErrDependencyMissing reports that the whisper runtime could not be
	// located at construction time.
	ErrDependencyMissing = errors.New("whisper runtime is not available")

	// ErrFileNotFound reports that the input audio path does not exist.
	ErrFileNotFound = errors.New("audio file not found")
)

// ModelLoadError reports that the configured model could not be made ready.
type ModelLoadError struct {
	Model string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// TranscriptionError wraps a failure of the delegated runtime or of the
// record-then-transcribe flow, preserving the underlying message.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}
