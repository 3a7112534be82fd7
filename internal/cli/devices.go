package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bookvox/bookvox/internal/record"
)

func newDevicesCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List audio capture devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backends := record.DefaultBackends(runtime.GOOS)
			if len(backends) == 0 {
				return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
			}

			backend, err := record.SelectBackend(backends, app.recordBackend())
			if err != nil {
				return err
			}

			listing, err := backend.ListDevices(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n\n%s\n", backend.Name(), listing)
			return nil
		},
	}

	bindRecordingFlags(cmd, app)
	return cmd
}
