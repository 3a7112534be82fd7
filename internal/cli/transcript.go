package cli

import "strings"

// blankAudioToken is what whisper-cli prints instead of text when the
// decoder finds no speech in the input.
const blankAudioToken = "[BLANK_AUDIO]"

// isBlankTranscript reports whether a transcript carries no spoken content:
// empty decoder output, or only the blank-audio marker.
func isBlankTranscript(transcript string) bool {
	trimmed := strings.TrimSpace(transcript)
	return trimmed == "" || strings.EqualFold(trimmed, blankAudioToken)
}

func noSpeechHint() string {
	return "No speech found in the audio. Verify the microphone is not muted and the right input device is selected (see `bookvox devices`)."
}
