package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bookvox/bookvox/internal/platform"
	"github.com/bookvox/bookvox/internal/whisper"
)

func newModelsCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List known whisper models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelDir, err := platform.ResolveModelDir(app.modelDir)
			if err != nil {
				return err
			}

			for _, name := range whisper.ModelNames() {
				model, _ := whisper.LookupModel(name)

				marker := " "
				if _, err := os.Stat(filepath.Join(modelDir, model.FileName)); err == nil {
					marker = "*"
				}

				current := ""
				if name == app.modelName() {
					current = " (default)"
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s\n", marker, name, current)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n* installed in %s\n", modelDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&app.model, "model", "", "Model marked as default")
	cmd.Flags().StringVar(&app.modelDir, "model-dir", "", "Directory where models are stored")

	return cmd
}
