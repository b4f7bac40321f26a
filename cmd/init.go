package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanofuxion/tamer4lynx/internal/config"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Initialize tamer.config.json interactively",
	Long: `Ask for the Android and iOS host identity and write tamer.config.json in
the current directory (or the file named by --config).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	path, err := defaultConfigPath()
	if err != nil {
		return err
	}

	wizard := config.NewConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout(), wd)
	cfg, err := wizard.Run()
	if err != nil {
		return err
	}
	if err := wizard.WriteConfigFile(path); err != nil {
		return err
	}

	if result := cfg.Validate(); result.HasWarnings() {
		fmt.Fprint(cmd.OutOrStdout(), result.String())
	}
	return nil
}
