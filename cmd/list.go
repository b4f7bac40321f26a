package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nanofuxion/tamer4lynx/internal/autolink"
	"github.com/nanofuxion/tamer4lynx/internal/config"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List discovered native packages",
	Long: `List the packages under node_modules that ship a tamer.json manifest,
with the platforms they contribute to and their native module classes.
Nothing is written.

Examples:
  tamer list              # Table output
  tamer list -o json      # JSON output
  tamer list -o yaml      # YAML output`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")
}

// packageEntry is one listed package.
type packageEntry struct {
	Name      string   `json:"name" yaml:"name"`
	Path      string   `json:"path" yaml:"path"`
	Platforms []string `json:"platforms" yaml:"platforms"`
	Android   string   `json:"android_module,omitempty" yaml:"android_module,omitempty"`
	IOS       string   `json:"ios_module,omitempty" yaml:"ios_module,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		// Listing needs no host identity.
		if !errors.Is(err, tamererrors.ErrConfigNotFound("")) {
			return err
		}
		cfg = &config.Config{}
	}

	logger := newLogger(cmd, false)
	linker, err := autolink.New(autolink.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	collector := tamererrors.NewErrorCollector()
	descriptors, err := linker.Discover(cmd.Context(), collector)
	if err != nil {
		return err
	}

	entries := make([]packageEntry, 0, len(descriptors))
	for _, d := range descriptors {
		entry := packageEntry{
			Name:      d.Name,
			Path:      relativeTo(linker.Root(), d.OriginPath),
			Platforms: d.PlatformNames(),
		}
		if c, ok := d.Platform(types.PlatformAndroid); ok {
			entry.Android = c.ModuleClassName
		}
		if c, ok := d.Platform(types.PlatformIOS); ok {
			entry.IOS = c.ModuleClassName
		}
		entries = append(entries, entry)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(listFlags.OutputFormat) {
	case "json":
		return outputListJSON(out, entries)
	case "yaml":
		return outputListYAML(out, entries)
	default:
		return outputListTable(out, entries)
	}
}

func outputListJSON(w io.Writer, entries []packageEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputListYAML(w io.Writer, entries []packageEntry) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(entries)
}

func outputListTable(w io.Writer, entries []packageEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No native packages found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPLATFORMS\tANDROID MODULE\tIOS MODULE\tPATH")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Name, strings.Join(e.Platforms, ","), dash(e.Android), dash(e.IOS), e.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %d package(s)\n", len(entries))
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
