package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nanofuxion/tamer4lynx/internal/bundle"
	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/scaffolding"
	"github.com/nanofuxion/tamer4lynx/internal/toolchain"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// platformOptions holds the flags of one platform command group.
type platformOptions struct {
	platform      types.Platform
	silent        bool
	skipToolchain bool
	gradleVersion string
	buildCommand  []string
}

// Swapped in tests so create and bundle do not reach the network or npm.
var (
	newGradleInstaller = toolchain.NewGradleInstaller
	newCocoaPods       = toolchain.NewCocoaPods
	newBundler         = bundle.NewBundler
)

var (
	androidOpts = &platformOptions{platform: types.PlatformAndroid}
	iosOpts     = &platformOptions{platform: types.PlatformIOS}
)

var androidCmd = &cobra.Command{
	Use:   "android",
	Short: "Android project commands",
}

var iosCmd = &cobra.Command{
	Use:   "ios",
	Short: "iOS project commands",
}

func init() {
	rootCmd.AddCommand(androidCmd, iosCmd)
	addPlatformCommands(androidCmd, androidOpts)
	addPlatformCommands(iosCmd, iosOpts)
}

func addPlatformCommands(parent *cobra.Command, opts *platformOptions) {
	name := parent.Name()

	link := &cobra.Command{
		Use:   "link",
		Short: fmt.Sprintf("Link native modules to the %s project", name),
		RunE:  opts.runLink,
	}
	link.Flags().BoolVarP(&opts.silent, "silent", "s", false, "Run in silent mode without outputting messages")

	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a new %s host project", name),
		RunE:  opts.runCreate,
	}
	if opts.platform == types.PlatformAndroid {
		create.Long = `Scaffold android/ from tamer.config.json. An existing android/ directory
is replaced. The Gradle wrapper is generated with a downloaded Gradle
distribution unless --skip-toolchain is given; an autolink pass follows.`
		create.Flags().StringVar(&opts.gradleVersion, "gradle-version", toolchain.DefaultGradleVersion, "Gradle version used to generate the wrapper")
	} else {
		create.Long = `Scaffold ios/ from tamer.config.json, keeping files that already exist.
pod install runs afterwards unless --skip-toolchain is given; an autolink pass
follows.`
	}
	create.Flags().BoolVar(&opts.skipToolchain, "skip-toolchain", false, "Do not download Gradle or run pod install")

	bundleCmd := &cobra.Command{
		Use:   "bundle",
		Short: fmt.Sprintf("Build the Lynx bundle and copy it into the %s project", name),
		RunE:  opts.runBundle,
	}
	bundleCmd.Flags().StringSliceVar(&opts.buildCommand, "build-cmd", bundle.DefaultCommand, "Command building the Lynx bundle")

	parent.AddCommand(link, create, bundleCmd)
}

func (o *platformOptions) runLink(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return linkOnce(cmd.Context(), cfg, []types.Platform{o.platform},
		newLogger(cmd, o.silent), summaryWriter(cmd, o.silent))
}

func (o *platformOptions) runCreate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireProjectIdentity(o.platform); err != nil {
		return err
	}
	root, err := cfg.ProjectRoot()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	gen := scaffolding.NewProjectGenerator(root, out)
	ctx := cmd.Context()

	switch o.platform {
	case types.PlatformAndroid:
		if err := gen.CreateAndroid(cfg); err != nil {
			return err
		}
		if !o.skipToolchain {
			installer := newGradleInstaller(filepath.Join(root, "gradle"))
			installer.Out = out
			if err := installer.Download(ctx, o.gradleVersion); err != nil {
				return err
			}
			if err := installer.SetupWrapper(ctx, filepath.Join(root, string(types.PlatformAndroid)), o.gradleVersion); err != nil {
				return err
			}
		}
	case types.PlatformIOS:
		if err := gen.CreateIOS(cfg); err != nil {
			return err
		}
	}

	logger := newLogger(cmd, false)
	if err := linkOnce(ctx, cfg, []types.Platform{o.platform}, logger, out); err != nil {
		return err
	}

	// Pods are installed after linking so the Podfile already lists them.
	if o.platform == types.PlatformIOS && !o.skipToolchain {
		pods := newCocoaPods()
		pods.Out = out
		if err := pods.Install(ctx, filepath.Join(root, string(types.PlatformIOS))); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "✅ %s project created in %s\n", o.platform, filepath.Join(root, string(o.platform)))
	return nil
}

func (o *platformOptions) runBundle(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return bundleFor(cmd, cfg, o.platform, o.buildCommand)
}

func bundleFor(cmd *cobra.Command, cfg *config.Config, p types.Platform, command []string) error {
	b := newBundler()
	b.Out = cmd.OutOrStdout()
	if len(command) > 0 {
		b.Command = command
	}
	_, err := b.Bundle(cmd.Context(), cfg, p)
	return err
}
