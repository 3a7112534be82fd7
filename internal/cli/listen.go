package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookvox/bookvox/internal/media"
	"github.com/bookvox/bookvox/internal/platform"
)

func newListenCmd(app *appState) *cobra.Command {
	var (
		duration  time.Duration
		keepAudio string
		save      bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Record from the microphone and transcribe the recording",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := app.newTranscriberFn(cmd.Context())
			if err != nil {
				return err
			}

			if keepAudio == "" && save {
				keepAudio, err = defaultRecordingPath()
				if err != nil {
					return err
				}
				app.log().Info("keeping recording", zap.String("path", keepAudio))
			}

			stopProgress := startDurationProgress(app.progressEnabled(), "Recording", duration)
			text, err := tr.RecordAndTranscribe(cmd.Context(), duration, keepAudio, output)
			stopProgress()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			if isBlankTranscript(text) {
				app.log().Warn(noSpeechHint())
				app.reportCaptureLevels(keepAudio)
			}
			return nil
		},
	}

	bindModelFlags(cmd, app)
	bindRecordingFlags(cmd, app)
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "Recording duration, e.g. 10s")
	cmd.Flags().StringVar(&keepAudio, "keep-audio", "", "Keep the recording at this path instead of a temp file")
	cmd.Flags().BoolVar(&save, "save", false, "Keep the recording under the default recordings directory")
	cmd.Flags().StringVar(&output, "output", "", "Write the transcript to this file")

	return cmd
}

// defaultRecordingPath reserves a timestamped wav file under the platform
// recordings directory.
func defaultRecordingPath() (string, error) {
	dir, err := platform.ResolveRecordingDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create recordings directory: %w", err)
	}
	return filepath.Join(dir, time.Now().Format("20060102-150405")+".wav"), nil
}

// reportCaptureLevels inspects a kept recording after a blank transcript so
// the user can tell a muted mic from a decoding problem.
func (a *appState) reportCaptureLevels(audioPath string) {
	if audioPath == "" {
		return
	}

	info, err := media.ProbeWAV(audioPath)
	if err != nil {
		a.log().Debug("capture analysis failed", zap.String("path", audioPath), zap.Error(err))
		return
	}

	if info.Silent(-65) {
		a.log().Warn("recording is silent; check mic mute and the selected input device",
			zap.Float64("rms_dbfs", info.RMSdBFS),
			zap.Float64("peak_dbfs", info.PeakdBFS))
		return
	}

	a.log().Debug("capture levels",
		zap.Duration("duration", info.Duration),
		zap.Float64("rms_dbfs", info.RMSdBFS),
		zap.Float64("peak_dbfs", info.PeakdBFS))
}
