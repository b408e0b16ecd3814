package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newVersionCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Installed version and update check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(rt.opts.Out, rt.app.Config.AppVersion)
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check whether a newer app version is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := rt.app.Services.Version.Check(cmd.Context())
			if err != nil {
				return err
			}
			return rt.print(status, func(w io.Writer) error {
				if !status.UpdateAvailable {
					_, err := fmt.Fprintf(w, "Up to date (%s)\n", status.Installed)
					return err
				}
				fmt.Fprintf(w, "Update available: %s -> %s\n", status.Installed, status.Latest.LatestVersion)
				if status.Latest.Mandatory {
					fmt.Fprintln(w, "This update is mandatory")
				}
				_, err := fmt.Fprintf(w, "Download: %s\n", status.Latest.APKURL)
				return err
			})
		},
	})
	return cmd
}
