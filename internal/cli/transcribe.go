package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookvox/bookvox/internal/convert"
	"github.com/bookvox/bookvox/internal/media"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	var (
		output   string
		markdown bool
		title    string
		split    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file> [more-audio-files...]",
		Short: "Transcribe audio files to text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := app.newTranscriberFn(cmd.Context())
			if err != nil {
				return err
			}

			inputs := args
			if split > 0 {
				scratch, err := os.MkdirTemp("", "bookvox-split-*")
				if err != nil {
					return fmt.Errorf("create scratch dir: %w", err)
				}
				defer os.RemoveAll(scratch)

				inputs, err = splitInputs(cmd, app, args, scratch, split)
				if err != nil {
					return err
				}
			}

			if len(inputs) == 1 && !markdown {
				stopSpinner := startSpinner(app.progressEnabled(), "Transcribing")
				text, err := tr.Transcribe(cmd.Context(), inputs[0], output)
				stopSpinner()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				if isBlankTranscript(text) {
					app.log().Warn(noSpeechHint())
				}
				return nil
			}

			stopSpinner := startSpinner(app.progressEnabled(), "Transcribing")
			doc, err := convert.AudioToText(cmd.Context(), tr, inputs, convert.AudioToTextOptions{
				Title:    title,
				Model:    app.modelName(),
				Markdown: markdown,
			}, app.log())
			stopSpinner()
			if err != nil {
				return err
			}

			if output != "" {
				if err := convert.WriteDocument(output, doc); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		},
	}

	bindModelFlags(cmd, app)
	cmd.Flags().StringVar(&output, "output", "", "Write the transcript to this file")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the transcript as a Markdown document")
	cmd.Flags().StringVar(&title, "title", "", "Document title for Markdown output")
	cmd.Flags().DurationVar(&split, "split", 0, "Cut inputs into segments of this length before decoding, e.g. 10m")

	return cmd
}

// splitInputs cuts each input into segments so very long recordings decode
// in bounded pieces. Segment files land in the caller's scratch dir.
func splitInputs(cmd *cobra.Command, app *appState, args []string, scratch string, split time.Duration) ([]string, error) {
	proc := media.NewProcessor(app.log())
	seconds := int(split / time.Second)
	if seconds <= 0 {
		seconds = 1
	}

	var inputs []string
	for _, input := range args {
		segments, err := proc.Split(cmd.Context(), input, scratch, seconds, "")
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", input, err)
		}
		app.log().Info("split input", zap.String("input", input), zap.Int("segments", len(segments)))
		inputs = append(inputs, segments...)
	}
	return inputs, nil
}
