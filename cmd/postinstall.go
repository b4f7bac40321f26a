package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nanofuxion/tamer4lynx/internal/autolink"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// hostOS decides whether iOS is linked on postinstall.
var hostOS = runtime.GOOS

var postinstallCmd = &cobra.Command{
	Use:   "postinstall",
	Short: "Link native modules after a package install",
	Long: `Intended for the host project's package.json "postinstall" script. When
autolink is enabled in tamer.config.json, links every platform whose host
directory exists; iOS is linked on macOS only. A missing configuration is
reported and ignored so installs never fail because of it.`,
	Args: cobra.NoArgs,
	RunE: runPostinstall,
}

func init() {
	rootCmd.AddCommand(postinstallCmd)
}

func runPostinstall(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd, false)
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		if tamererrors.IsConfigError(err) {
			logger.Warn(ctx, err, "Skipping autolink")
			return nil
		}
		return err
	}
	if !cfg.Autolink {
		logger.Debug(ctx, "Autolink disabled, nothing to do")
		return nil
	}

	root, err := cfg.ProjectRoot()
	if err != nil {
		return err
	}
	var platforms []types.Platform
	for _, p := range autolink.DetectPlatforms(root) {
		if p == types.PlatformIOS && hostOS != "darwin" {
			logger.Info(ctx, "Skipping iOS autolink outside macOS")
			continue
		}
		platforms = append(platforms, p)
	}
	if len(platforms) == 0 {
		return nil
	}
	return linkOnce(ctx, cfg, platforms, logger, cmd.OutOrStdout())
}
