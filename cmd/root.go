// Package cmd provides the tamer command-line interface.
//
// Configuration System:
//
//	Host configuration is read from tamer.config.json with this precedence:
//	1. --config flag
//	2. TAMER_CONFIG_FILE environment variable
//	3. tamer.config.json in the current directory
//
//	Individual values can be overridden with TAMER_<SECTION>_<FIELD>, e.g.
//	TAMER_ANDROID_PACKAGENAME or TAMER_IOS_APPNAME.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nanofuxion/tamer4lynx/internal/config"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	logJSON  bool

	// appViper is rebuilt by initConfig on every execution.
	appViper = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tamer",
	Short: "Autolink native modules into Lynx host projects",
	Long: `Tamer4Lynx links the native Android and iOS code of installed packages
into a Lynx host project.

Packages opt in by shipping a tamer.json manifest. Each link pass rewrites
the marked sections of settings.gradle.kts, app/build.gradle.kts and the
Podfile, and regenerates the native module registries.

Quick Start:
  tamer init                 Create tamer.config.json
  tamer android create       Scaffold the Android host project
  tamer link                 Link every platform whose host directory exists
  tamer list                 Show discovered native packages

Documentation: https://github.com/nanofuxion/tamer4lynx`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the command tree with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./tamer.config.json, can also use TAMER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
}

// initConfig points a fresh viper at the host configuration. The file is not
// read here; commands that need it call loadConfig.
func initConfig() {
	appViper = viper.New()
	config.Configure(appViper, configFilePath(), ".")
	_ = appViper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// configFilePath returns the explicitly selected config file, or "".
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return os.Getenv("TAMER_CONFIG_FILE")
}

// defaultConfigPath is where commands that write the config put it.
func defaultConfigPath() (string, error) {
	if p := configFilePath(); p != "" {
		return filepath.Abs(p)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, config.FileName), nil
}

// loadConfig reads the host configuration. A missing file yields
// ErrConfigNotFound.
func loadConfig() (*config.Config, error) {
	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			path, _ := defaultConfigPath()
			return nil, tamererrors.ErrConfigNotFound(path)
		}
		return nil, tamererrors.NewConfigError(tamererrors.ErrCodeConfigInvalid, err.Error())
	}
	return config.Load(appViper)
}

// newLogger builds the CLI logger writing to the command's stderr. Silent
// mode keeps errors only.
func newLogger(cmd *cobra.Command, silent bool) *logging.TamerLogger {
	level := logging.ParseLevel(appViper.GetString("log-level"))
	if silent && level < logging.LevelError {
		level = logging.LevelError
	}
	format := "text"
	if logJSON {
		format = "json"
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
}

// summaryWriter is where human-readable results go.
func summaryWriter(cmd *cobra.Command, silent bool) io.Writer {
	if silent {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
