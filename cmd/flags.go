package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// OutputFormats lists the formats accepted by --output.
var OutputFormats = []string{"table", "json", "yaml"}

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Platform selection
	Android bool `flag:"android,a" desc:"Target Android" default:"false"`
	IOS     bool `flag:"ios,i" desc:"Target iOS" default:"false"`
	Both    bool `flag:"both,b" desc:"Target Android and iOS" default:"false"`

	// Output flags
	OutputFormat string `flag:"output,o" desc:"Output format (table|json|yaml)" default:"table"`
	Silent       bool   `flag:"silent,s" desc:"Only report errors" default:"false"`
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "platform":
			addPlatformFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		case "silent":
			addSilentFlag(cmd, flags)
		}
	}

	return flags
}

func addPlatformFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().BoolVarP(&flags.Android, "android", "a", false, "Link Android native modules")
	cmd.Flags().BoolVarP(&flags.IOS, "ios", "i", false, "Link iOS native modules")
	cmd.Flags().BoolVarP(&flags.Both, "both", "b", false, "Link both iOS and Android native modules")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "table", "Output format (table|json|yaml)")
	AddFlagValidation(cmd, "output", func(format string) error {
		return ValidateFormatWithSuggestion(format, OutputFormats)
	})
}

func addSilentFlag(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().BoolVarP(&flags.Silent, "silent", "s", false, "Run in silent mode without outputting messages")
}

// Platforms returns the selected platforms, or nil when none was selected so
// the caller can detect them from the project.
func (f *StandardFlags) Platforms() []types.Platform {
	switch {
	case f.Both || (f.Android && f.IOS):
		return []types.Platform{types.PlatformAndroid, types.PlatformIOS}
	case f.Android:
		return []types.Platform{types.PlatformAndroid}
	case f.IOS:
		return []types.Platform{types.PlatformIOS}
	default:
		return nil
	}
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.OutputFormat != "" {
		if err := ValidateFormatWithSuggestion(f.OutputFormat, OutputFormats); err != nil {
			return err
		}
	}
	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	originalSet := flag.Value.Set

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: originalSet,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidateFormatWithSuggestion accepts one of valid, case-insensitively, and
// otherwise names the closest valid value.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	lower := strings.ToLower(format)
	best, bestDist := "", -1
	for _, v := range valid {
		if lower == v {
			return nil
		}
		if d := editDistance(lower, v); bestDist < 0 || d < bestDist {
			best, bestDist = v, d
		}
	}
	msg := fmt.Sprintf("invalid format %q, must be one of: %s", format, strings.Join(valid, ", "))
	if bestDist >= 0 && bestDist <= 2 {
		msg += fmt.Sprintf(" (did you mean %q?)", best)
	}
	return fmt.Errorf("%s", msg)
}

// ValidatePort checks a TCP port number.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	return nil
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
