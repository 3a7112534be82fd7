package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookvox/bookvox/internal/book"
	"github.com/bookvox/bookvox/internal/convert"
	"github.com/bookvox/bookvox/internal/media"
	"github.com/bookvox/bookvox/internal/tts"
)

func newSpeakCmd(app *appState) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "speak <book-file>",
		Short: "Convert an ebook (epub, pdf, txt) into audio files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := book.Open(args[0], app.log())
			if err != nil {
				return err
			}

			engine, err := tts.NewEngine(app.ttsEngineName())
			if err != nil {
				return err
			}
			app.log().Info("using speech engine", zap.String("engine", engine.Name()))

			if !media.Available() {
				app.log().Warn("ffmpeg not found; chapters needing more than one segment cannot be combined")
			}

			converter := convert.NewBookConverter(engine, app.log())
			outputs, err := converter.Convert(cmd.Context(), b, convert.BookToAudioOptions{
				OutputDir:  outputDir,
				Format:     app.outputFormat(),
				Bitrate:    app.outputBitrate(),
				Language:   app.synthesisLanguage(),
				Voice:      app.voiceName(),
				Rate:       app.speechRate(),
				ChunkSize:  app.textChunkSize(),
				NoProgress: !app.progressEnabled(),
			})
			if err != nil {
				return err
			}

			for _, output := range outputs {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			return nil
		},
	}

	bindSynthesisFlags(cmd, app)
	cmd.Flags().StringVar(&app.language, "language", "", "Synthesis language code (default from book metadata)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for generated audio (default: derived from book title)")

	return cmd
}
