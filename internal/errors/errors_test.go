package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSeverityString(t *testing.T) {
	testCases := []struct {
		severity ErrorSeverity
		expected string
	}{
		{ErrorSeverityInfo, "info"},
		{ErrorSeverityWarning, "warning"},
		{ErrorSeverityError, "error"},
		{ErrorSeverity(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.severity.String())
		})
	}
}

func TestTamerErrorFormatting(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := ErrInvalidManifest("@org/pkg-b", "/p/node_modules/@org/pkg-b/tamer.json", cause)

	msg := err.Error()
	assert.Contains(t, msg, "[ERR_INVALID_MANIFEST]")
	assert.Contains(t, msg, "package:@org/pkg-b")
	assert.Contains(t, msg, "/p/node_modules/@org/pkg-b/tamer.json")
	assert.Contains(t, msg, "unexpected end of JSON input")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestTamerErrorIs(t *testing.T) {
	err := fmt.Errorf("linking android: %w", ErrMissingHostIdentity("android.packageName"))

	assert.True(t, errors.Is(err, ErrMissingHostIdentity("ios.appName")))
	assert.False(t, errors.Is(err, ErrConfigNotFound("tamer.config.json")))
}

func TestClassification(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		config bool
	}{
		{"missing identity", ErrMissingHostIdentity("android.packageName"), true},
		{"config not found", ErrConfigNotFound("tamer.config.json"), true},
		{"invalid manifest", ErrInvalidManifest("a", "a/tamer.json", nil), false},
		{"target missing", ErrTargetMissing("settings.gradle.kts"), false},
		{"markers missing", ErrMarkersMissing("Podfile"), false},
		{"build failed", ErrBuildFailed(".", errors.New("exit 1")), false},
		{"plain error", errors.New("plain"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.config, IsConfigError(tc.err))
		})
	}
}

func TestWithContext(t *testing.T) {
	err := ErrNameCollision("a_b", "@a/b", "a_b")
	require.NotNil(t, err.Context)
	assert.Equal(t, "a_b", err.Context["identifier"])
	assert.Contains(t, err.Error(), "already used by @a/b")
}

func TestErrorCollector(t *testing.T) {
	collector := NewErrorCollector()
	assert.False(t, collector.HasErrors())

	collector.Warn(nil)
	assert.Empty(t, collector.Diagnostics())

	collector.Warn(ErrInvalidManifest("pkg-bad", "pkg-bad/tamer.json", errors.New("bad json")))
	collector.Warn(ErrTargetMissing("android/settings.gradle.kts"))
	assert.Equal(t, 2, collector.Count(ErrorSeverityWarning))
	assert.False(t, collector.HasErrors())

	collector.AddError(ErrWriteFailed("android/app/build.gradle.kts", errors.New("read-only file system")))
	assert.True(t, collector.HasErrors())
	assert.Equal(t, 1, collector.Count(ErrorSeverityError))

	byPkg := collector.ByPackage("pkg-bad")
	require.Len(t, byPkg, 1)
	assert.Equal(t, ErrorSeverityWarning, byPkg[0].Severity)
	assert.Empty(t, collector.ByPackage("pkg-good"))
}
