package config

import (
	"fmt"
	"regexp"
	"strings"

	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

var (
	// Dotted identifiers as accepted for a JVM package / applicationId.
	packageNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)
	// Reverse-DNS bundle identifiers, which may contain hyphens.
	bundleIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

// RequireHostIdentity returns ErrMissingHostIdentity when the field the
// autolinker needs to place generated files for p is unset.
func (c *Config) RequireHostIdentity(p types.Platform) error {
	switch p {
	case types.PlatformAndroid:
		if c.Android.PackageName == "" {
			return tamererrors.ErrMissingHostIdentity("android.packageName")
		}
	case types.PlatformIOS:
		if c.IOS.AppName == "" {
			return tamererrors.ErrMissingHostIdentity("ios.appName")
		}
	}
	return nil
}

// RequireProjectIdentity is RequireHostIdentity plus the fields project
// creation needs.
func (c *Config) RequireProjectIdentity(p types.Platform) error {
	if err := c.RequireHostIdentity(p); err != nil {
		return err
	}
	switch p {
	case types.PlatformAndroid:
		if c.Android.AppName == "" {
			return tamererrors.ErrMissingHostIdentity("android.appName")
		}
	case types.PlatformIOS:
		if c.IOS.BundleID == "" {
			return tamererrors.ErrMissingHostIdentity("ios.bundleId")
		}
	}
	return nil
}

// Validate checks the formats of every configured field. Unset fields are
// not errors here; commands that need one call RequireHostIdentity.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	if pkg := c.Android.PackageName; pkg != "" && !packageNamePattern.MatchString(pkg) {
		result.addError("android.packageName", pkg, "not a valid Java package name",
			"Use lowercase dotted segments, e.g. com.example.app")
	}
	if id := c.IOS.BundleID; id != "" && !bundleIDPattern.MatchString(id) {
		result.addError("ios.bundleId", id, "not a valid bundle identifier",
			"Use reverse-DNS notation, e.g. com.example.app")
	}
	if name := c.IOS.AppName; name != "" && strings.ContainsAny(name, `/\`) {
		result.addError("ios.appName", name, "must not contain path separators")
	}
	if sdk := c.Android.SDK; strings.HasPrefix(sdk, "$") {
		result.addWarning("android.sdk", sdk, "environment variable was not resolved",
			"Set the variable before running tamer init, or write the path directly")
	}
	if c.Android.PackageName == "" && c.IOS.AppName == "" {
		result.addWarning("android.packageName", "", "no host identity configured; autolinking will fail",
			"Run 'tamer init' to create the configuration")
	}

	return result
}
