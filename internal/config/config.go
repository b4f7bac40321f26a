// Package config loads and writes tamer.config.json, the host project
// configuration, using Viper for file loading and TAMER_ environment
// variable overrides.
//
// The file records the host identity the autolinker needs (the Android
// application package and the iOS app target), optional platform metadata
// used by project scaffolding, the Lynx project location used for bundling
// and the postinstall autolink switch.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
)

// FileName is the host configuration file looked up in the project root.
const FileName = "tamer.config.json"

// EnvPrefix prefixes environment overrides, e.g. TAMER_ANDROID_PACKAGENAME.
const EnvPrefix = "TAMER"

type Config struct {
	Android     AndroidConfig `mapstructure:"android" json:"android"`
	IOS         IOSConfig     `mapstructure:"ios" json:"ios"`
	LynxProject string        `mapstructure:"lynxProject" json:"lynxProject,omitempty"`
	Autolink    bool          `mapstructure:"autolink" json:"autolink,omitempty"`

	// Path is the file the configuration was read from; empty when it was
	// assembled from flags and environment only.
	Path string `mapstructure:"-" json:"-"`
}

type AndroidConfig struct {
	AppName     string `mapstructure:"appName" json:"appName,omitempty"`
	PackageName string `mapstructure:"packageName" json:"packageName,omitempty"`
	SDK         string `mapstructure:"sdk" json:"sdk,omitempty"`
}

type IOSConfig struct {
	AppName  string `mapstructure:"appName" json:"appName,omitempty"`
	BundleID string `mapstructure:"bundleId" json:"bundleId,omitempty"`
}

// Configure applies tamer's lookup rules to v: an explicit file wins,
// otherwise tamer.config.json is searched in dir. Environment variables with
// the TAMER_ prefix override file values.
func Configure(v *viper.Viper, explicitFile, dir string) {
	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	}
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"android.appName", "android.packageName", "android.sdk",
		"ios.appName", "ios.bundleId", "lynxProject", "autolink",
	} {
		_ = v.BindEnv(key)
	}
}

// Load decodes the configuration v has read. Values are trimmed.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, tamererrors.NewConfigError(tamererrors.ErrCodeConfigInvalid,
			fmt.Sprintf("decoding configuration: %v", err))
	}
	cfg.Path = v.ConfigFileUsed()
	cfg.normalize()
	return &cfg, nil
}

// LoadFile reads the configuration at path with environment overrides
// applied. A missing file yields ErrConfigNotFound.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tamererrors.ErrConfigNotFound(path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	v := viper.New()
	Configure(v, path, "")
	if err := v.ReadInConfig(); err != nil {
		return nil, tamererrors.NewConfigError(tamererrors.ErrCodeConfigInvalid,
			fmt.Sprintf("reading %s: %v", path, err)).WithFile(path)
	}
	return Load(v)
}

// ProjectRoot returns the directory holding android/ and ios/: the config
// file's directory, or the working directory when no file was read.
func (c *Config) ProjectRoot() (string, error) {
	if c.Path != "" {
		return filepath.Abs(filepath.Dir(c.Path))
	}
	return os.Getwd()
}

// LynxProjectDir resolves lynxProject against the project root.
func (c *Config) LynxProjectDir() (string, error) {
	root, err := c.ProjectRoot()
	if err != nil {
		return "", err
	}
	if c.LynxProject == "" {
		return root, nil
	}
	if filepath.IsAbs(c.LynxProject) {
		return filepath.Clean(c.LynxProject), nil
	}
	return filepath.Join(root, c.LynxProject), nil
}

func (c *Config) normalize() {
	c.Android.AppName = strings.TrimSpace(c.Android.AppName)
	c.Android.PackageName = strings.TrimSpace(c.Android.PackageName)
	c.Android.SDK = strings.TrimSpace(c.Android.SDK)
	c.IOS.AppName = strings.TrimSpace(c.IOS.AppName)
	c.IOS.BundleID = strings.TrimSpace(c.IOS.BundleID)
	c.LynxProject = strings.TrimSpace(c.LynxProject)
}

// Save writes cfg to path as two-space indented JSON.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// ToggleAutolink flips the "autolink" switch in the file at path and
// returns the new state. Enabling sets it to true; disabling removes the
// key. Every other key in the file is kept.
func ToggleAutolink(path string) (bool, error) {
	raw, err := readRaw(path)
	if err != nil {
		return false, err
	}

	enabled, _ := raw["autolink"].(bool)
	if enabled {
		delete(raw, "autolink")
	} else {
		raw["autolink"] = true
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encoding configuration: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return false, fmt.Errorf("failed to write configuration file: %w", err)
	}
	return !enabled, nil
}

func readRaw(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tamererrors.ErrConfigNotFound(path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, tamererrors.NewConfigError(tamererrors.ErrCodeConfigInvalid,
			fmt.Sprintf("parsing %s: %v", path, err)).WithFile(path)
	}
	if raw == nil {
		raw = make(map[string]interface{})
	}
	return raw, nil
}
