package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nanofuxion/tamer4lynx/internal/config"
)

var autolinkCmd = &cobra.Command{
	Use:   "autolink",
	Short: "Toggle autolinking on postinstall",
	Long: `Flip the "autolink" switch in tamer.config.json. When enabled,
'tamer postinstall' links every present platform after each package install.
Other keys in the file are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runAutolink,
}

func init() {
	rootCmd.AddCommand(autolinkCmd)
}

func runAutolink(cmd *cobra.Command, _ []string) error {
	path, err := defaultConfigPath()
	if err != nil {
		return err
	}
	enabled, err := config.ToggleAutolink(path)
	if err != nil {
		return err
	}
	if enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Autolink enabled in tamer.config.json")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Autolink disabled in tamer.config.json")
	}
	return nil
}
