package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanofuxion/tamer4lynx/internal/autolink"
	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/logging"
	"github.com/nanofuxion/tamer4lynx/internal/types"
	"github.com/nanofuxion/tamer4lynx/internal/watcher"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link native modules to the project",
	Long: `Discover packages under node_modules that ship a tamer.json manifest and
link their native code into the host project.

Without a platform flag every platform whose host directory (android/ or
ios/) exists is linked.

Examples:
  tamer link              # Link every present platform
  tamer link -a           # Android only
  tamer link -b -s        # Both platforms, errors only
  tamer link --watch      # Re-link whenever node_modules changes`,
	RunE: runLink,
}

var (
	linkFlags    *StandardFlags
	linkWatch    bool
	linkDebounce time.Duration
)

func init() {
	rootCmd.AddCommand(linkCmd)

	linkFlags = AddStandardFlags(linkCmd, "platform", "silent")
	linkCmd.Flags().BoolVar(&linkWatch, "watch", false, "Keep running and re-link when dependencies change")
	linkCmd.Flags().DurationVar(&linkDebounce, "debounce", 300*time.Millisecond, "Delay before re-linking after a change")
}

func runLink(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, linkFlags.Silent)
	out := summaryWriter(cmd, linkFlags.Silent)
	platforms := linkFlags.Platforms()

	if err := linkOnce(cmd.Context(), cfg, platforms, logger, out); err != nil {
		return err
	}
	if !linkWatch {
		return nil
	}
	return watchAndLink(cmd, cfg, platforms, logger)
}

// linkOnce runs one autolink pass and prints its summary. Failed writes make
// it return an error after the summary is printed.
func linkOnce(ctx context.Context, cfg *config.Config, platforms []types.Platform,
	logger logging.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	root, err := cfg.ProjectRoot()
	if err != nil {
		return err
	}
	linker, err := autolink.New(autolink.Options{
		ProjectRoot: root,
		Config:      cfg,
		Platforms:   platforms,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if len(linker.Platforms()) == 0 {
		logger.Warn(ctx, nil, "No android/ or ios/ directory found, nothing to link", "root", root)
		return nil
	}

	summary, err := linker.Run(ctx)
	if err != nil {
		return err
	}
	summary.Print(out)
	return summary.Err()
}

func watchAndLink(cmd *cobra.Command, cfg *config.Config, platforms []types.Platform, logger logging.Logger) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := cfg.ProjectRoot()
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(root, linkDebounce, logger)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(watcher.RelevantFilter(root))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		logger.Info(ctx, "Dependencies changed, re-linking", "changes", len(events))
		current := cfg
		if cfg.Path != "" {
			reloaded, err := config.LoadFile(cfg.Path)
			if err != nil {
				return err
			}
			current = reloaded
		}
		return linkOnce(ctx, current, platforms, logger, summaryWriter(cmd, linkFlags.Silent))
	})

	if err := fw.WatchProject(); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Watching for dependency changes", "root", root)
	<-ctx.Done()
	return nil
}
