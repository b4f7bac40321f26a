package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var envReference = regexp.MustCompile(`^\$([A-Z0-9_]+)$`)

// ConfigWizard provides an interactive setup experience for new projects
type ConfigWizard struct {
	reader  *bufio.Reader
	out     io.Writer
	config  *Config
	dirName string
	lookup  func(string) (string, bool)
}

// NewConfigWizard creates a wizard reading answers from in and prompting on
// out. dirName is the project directory, used to suggest default names.
func NewConfigWizard(in io.Reader, out io.Writer, dirName string) *ConfigWizard {
	return &ConfigWizard{
		reader:  bufio.NewReader(in),
		out:     out,
		config:  &Config{},
		dirName: filepath.Base(dirName),
		lookup:  os.LookupEnv,
	}
}

// Run executes the interactive configuration wizard
func (w *ConfigWizard) Run() (*Config, error) {
	fmt.Fprintln(w.out, "Tamer4Lynx Init: Let's set up your tamer.config.json")
	fmt.Fprintln(w.out)

	w.configureAndroid()
	w.configureIOS()

	w.config.LynxProject = w.askString("Lynx project path (relative to project root, e.g. packages/example) [optional]", "")

	if result := w.config.Validate(); result.HasErrors() {
		return nil, fmt.Errorf("configuration validation failed:\n%s", result.String())
	}

	fmt.Fprintln(w.out)
	return w.config, nil
}

func (w *ConfigWizard) configureAndroid() {
	appName := w.askString("Android app name", DefaultAppName(w.dirName))
	w.config.Android.AppName = appName
	w.config.Android.PackageName = w.askString("Android package name (e.g. com.example.app)", DefaultPackageName(w.dirName))
	w.config.Android.SDK = w.resolveSDK(w.askString("Android SDK path (e.g. ~/Library/Android/sdk or $ANDROID_HOME)", ""))
}

func (w *ConfigWizard) configureIOS() {
	if w.askBool("Use same name and bundle ID for iOS as Android?", false) {
		w.config.IOS.AppName = w.config.Android.AppName
		w.config.IOS.BundleID = w.config.Android.PackageName
		return
	}
	w.config.IOS.AppName = w.askString("iOS app name", w.config.Android.AppName)
	w.config.IOS.BundleID = w.askString("iOS bundle ID (e.g. com.example.app)", w.config.Android.PackageName)
}

// resolveSDK expands "$VAR" references and a leading "~".
func (w *ConfigWizard) resolveSDK(sdk string) string {
	if m := envReference.FindStringSubmatch(sdk); m != nil {
		if value, ok := w.lookup(m[1]); ok && value != "" {
			fmt.Fprintf(w.out, "Resolved %s from $%s\n", value, m[1])
			return value
		}
		fmt.Fprintf(w.out, "⚠️  Environment variable $%s not found. SDK path will be left as-is.\n", m[1])
		return sdk
	}
	if sdk == "~" || strings.HasPrefix(sdk, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(sdk, "~"))
		}
	}
	return sdk
}

// DefaultAppName derives a display name from a directory name:
// "my-lynx_app" becomes "My Lynx App".
func DefaultAppName(dir string) string {
	words := strings.FieldsFunc(dir, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// DefaultPackageName derives an application package from a directory name.
func DefaultPackageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "app" + name
	}
	return "com.example." + name
}

func (w *ConfigWizard) askString(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(w.out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(w.out, "%s: ", prompt)
	}

	input, err := w.reader.ReadString('\n')
	if err != nil && input == "" {
		return defaultValue
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

func (w *ConfigWizard) askBool(prompt string, defaultValue bool) bool {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	fmt.Fprintf(w.out, "%s (%s): ", prompt, defaultStr)

	input, err := w.reader.ReadString('\n')
	if err != nil && input == "" {
		return defaultValue
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultValue
	}

	return input == "y" || input == "yes" || input == "true"
}

// WriteConfigFile writes the configuration to filename, asking before
// overwriting an existing file.
func (w *ConfigWizard) WriteConfigFile(filename string) error {
	if _, err := os.Stat(filename); err == nil {
		overwrite := w.askBool(fmt.Sprintf("Configuration file %s already exists. Overwrite?", filename), false)
		if !overwrite {
			return fmt.Errorf("configuration file already exists")
		}
	}

	if err := Save(filename, w.config); err != nil {
		return err
	}

	fmt.Fprintf(w.out, "✅ Generated %s at %s\n", FileName, filename)
	return nil
}
