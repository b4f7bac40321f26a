package autolink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/emit"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/logging"
	"github.com/nanofuxion/tamer4lynx/internal/merge"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

const (
	settingsFixture = `pluginManagement {
    repositories { google(); mavenCentral() }
}
rootProject.name = "Demo"
include(":app")

// GENERATED AUTOLINK START
include(":stale-package")
// GENERATED AUTOLINK END
`
	appBuildFixture = `plugins { id("com.android.application") }

dependencies {
    implementation(libs.lynx)
    // GENERATED AUTOLINK DEPENDENCIES START
    implementation(project(":stale-package"))
    // GENERATED AUTOLINK DEPENDENCIES END
}
`
	podfileFixture = `platform :ios, '13.0'

target 'DemoApp' do
  pod 'Lynx'
end
`
)

func init() {
	color.NoColor = true
}

type project struct {
	root string
	cfg  *config.Config
}

func newProject(t *testing.T) *project {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "android", "settings.gradle.kts"), settingsFixture)
	writeFile(t, filepath.Join(root, "android", "app", "build.gradle.kts"), appBuildFixture)
	writeFile(t, filepath.Join(root, "ios", "Podfile"), podfileFixture)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ios", "DemoApp"), 0755))

	return &project{
		root: root,
		cfg: &config.Config{
			Android: config.AndroidConfig{AppName: "Demo", PackageName: "com.example.demo"},
			IOS:     config.IOSConfig{AppName: "DemoApp", BundleID: "com.example.demo"},
		},
	}
}

func (p *project) addPackage(t *testing.T, name, manifest string) {
	t.Helper()
	dir := filepath.Join(p.root, "node_modules", filepath.FromSlash(name))
	writeFile(t, filepath.Join(dir, "package.json"), `{"name":"`+name+`"}`)
	if manifest != "" {
		writeFile(t, filepath.Join(dir, "tamer.json"), manifest)
	}
}

func (p *project) removePackage(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, os.RemoveAll(filepath.Join(p.root, "node_modules", filepath.FromSlash(name))))
}

func (p *project) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (p *project) run(t *testing.T, logger logging.Logger, platforms ...types.Platform) *Summary {
	t.Helper()
	linker, err := New(Options{ProjectRoot: p.root, Config: p.cfg, Platforms: platforms, Logger: logger})
	require.NoError(t, err)
	summary, err := linker.Run(context.Background())
	require.NoError(t, err)
	return summary
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func bufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: &buf}), &buf
}

const registryPath = "android/app/src/main/kotlin/com/example/demo/generated/GeneratedLynxExtensions.kt"

func TestRunScenario(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{"moduleClassName":"a.b.C"}}`)
	p.addPackage(t, "@org/pkg-b", `{"ios":{}}`)
	p.addPackage(t, "plain-js", "")

	summary := p.run(t, logging.Discard())

	require.Len(t, summary.Packages, 2)
	assert.Equal(t, "@org/pkg-b", summary.Packages[0].Name)
	assert.Equal(t, "pkg-a", summary.Packages[1].Name)

	settings := p.read(t, "android/settings.gradle.kts")
	assert.Contains(t, settings, `include(":pkg-a")`)
	assert.Contains(t, settings, `project(":pkg-a").projectDir = file("../node_modules/pkg-a/android")`)
	assert.NotContains(t, settings, "pkg-b")
	assert.NotContains(t, settings, "stale-package")

	deps := p.read(t, "android/app/build.gradle.kts")
	assert.Contains(t, deps, `implementation(project(":pkg-a"))`)
	assert.Contains(t, deps, "implementation(libs.lynx)")
	assert.NotContains(t, deps, "stale-package")

	registry := p.read(t, registryPath)
	assert.Equal(t, 1, strings.Count(registry, "registerModule("))
	assert.Contains(t, registry, `registerModule("C", a.b.C::class.java) // pkg-a`)

	podfile := p.read(t, "ios/Podfile")
	assert.True(t, strings.HasPrefix(podfile, podfileFixture))
	assert.Contains(t, podfile, "pod 'org_pkg-b', :path => '../node_modules/@org/pkg-b/ios'")
	assert.NotContains(t, podfile, "pkg-a")

	swift := p.read(t, "ios/DemoApp/Generated/GeneratedLynxExtensions.swift")
	assert.NotContains(t, swift, "config.register(")

	outcomes := map[string]merge.Outcome{}
	for _, r := range summary.Results {
		rel, _ := filepath.Rel(p.root, r.Path)
		outcomes[filepath.ToSlash(rel)] = r.Outcome
	}
	assert.Equal(t, merge.OutcomeUpdated, outcomes["android/settings.gradle.kts"])
	assert.Equal(t, merge.OutcomeUpdated, outcomes["android/app/build.gradle.kts"])
	assert.Equal(t, merge.OutcomeGenerated, outcomes[registryPath])
	assert.Equal(t, merge.OutcomeAppended, outcomes["ios/Podfile"])
	assert.NoError(t, summary.Err())
}

func TestRunIsIdempotent(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{"moduleClassName":"a.b.C"}}`)
	p.addPackage(t, "@org/pkg-b", `{"ios":{"moduleClassName":"OrgModule"}}`)

	files := []string{
		"android/settings.gradle.kts",
		"android/app/build.gradle.kts",
		registryPath,
		"ios/Podfile",
		"ios/DemoApp/Generated/GeneratedLynxExtensions.swift",
	}

	p.run(t, logging.Discard())
	first := map[string]string{}
	for _, f := range files {
		first[f] = p.read(t, f)
	}

	summary := p.run(t, logging.Discard())
	for _, f := range files {
		assert.Equal(t, first[f], p.read(t, f), f)
	}
	for _, r := range summary.Results {
		assert.NotEqual(t, merge.OutcomeAppended, r.Outcome, r.Path)
	}
	assert.Equal(t, 1, strings.Count(p.read(t, "ios/Podfile"), emit.PodsStartMarker))
}

func TestRunEmptyStateClearsStaleEntries(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{"moduleClassName":"a.b.C"}}`)
	p.run(t, logging.Discard(), types.PlatformAndroid)
	require.Contains(t, p.read(t, "android/settings.gradle.kts"), `include(":pkg-a")`)

	p.removePackage(t, "pkg-a")
	summary := p.run(t, logging.Discard(), types.PlatformAndroid)
	assert.Empty(t, summary.Packages)

	settings := p.read(t, "android/settings.gradle.kts")
	assert.NotContains(t, settings, "pkg-a")
	assert.Contains(t, settings, "No native modules found by Tamer4Lynx autolinker.")
	assert.NotContains(t, p.read(t, "android/app/build.gradle.kts"), "pkg-a")
	assert.NotContains(t, p.read(t, registryPath), "registerModule(")
}

func TestRunWithoutNodeModules(t *testing.T) {
	p := newProject(t)
	logger, buf := bufferLogger()

	summary := p.run(t, logger, types.PlatformAndroid)
	assert.Empty(t, summary.Packages)
	assert.Contains(t, buf.String(), "node_modules directory not found")
	assert.Contains(t, p.read(t, "android/settings.gradle.kts"), "No native modules found")
}

func TestRunIsolatesBrokenManifest(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{}}`)
	p.addPackage(t, "pkg-bad", `{"android":`)
	p.addPackage(t, "pkg-c", `{"android":{}}`)

	logger, buf := bufferLogger()
	summary := p.run(t, logger, types.PlatformAndroid)

	require.Len(t, summary.Packages, 2)
	settings := p.read(t, "android/settings.gradle.kts")
	assert.Contains(t, settings, `include(":pkg-a")`)
	assert.Contains(t, settings, `include(":pkg-c")`)
	assert.NotContains(t, settings, "pkg-bad")
	assert.Contains(t, buf.String(), "pkg-bad")
}

func TestRunPreservesBytesOutsideMarkers(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{}}`)

	p.run(t, logging.Discard(), types.PlatformAndroid)
	settings := p.read(t, "android/settings.gradle.kts")

	start := strings.Index(settingsFixture, emit.SettingsStartMarker)
	end := strings.Index(settingsFixture, emit.SettingsEndMarker) + len(emit.SettingsEndMarker)
	assert.True(t, strings.HasPrefix(settings, settingsFixture[:start]))
	assert.True(t, strings.HasSuffix(settings, settingsFixture[end:]))
}

func TestRunMissingHostIdentityTouchesNothing(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{}}`)
	p.cfg.Android.PackageName = ""

	linker, err := New(Options{ProjectRoot: p.root, Config: p.cfg, Platforms: []types.Platform{types.PlatformAndroid}})
	require.NoError(t, err)

	summary, err := linker.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, tamererrors.IsConfigError(err))
	assert.ErrorIs(t, err, tamererrors.ErrMissingHostIdentity("android.packageName"))

	assert.Equal(t, settingsFixture, p.read(t, "android/settings.gradle.kts"))
	assert.Equal(t, appBuildFixture, p.read(t, "android/app/build.gradle.kts"))
	_, statErr := os.Stat(filepath.Join(p.root, filepath.FromSlash(registryPath)))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingTargetIsSkipped(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{}}`)
	require.NoError(t, os.Remove(filepath.Join(p.root, "android", "app", "build.gradle.kts")))

	logger, buf := bufferLogger()
	summary := p.run(t, logger, types.PlatformAndroid)

	_, statErr := os.Stat(filepath.Join(p.root, "android", "app", "build.gradle.kts"))
	assert.True(t, os.IsNotExist(statErr))
	assert.Contains(t, p.read(t, "android/settings.gradle.kts"), `include(":pkg-a")`)
	assert.Contains(t, buf.String(), "File not found, skipping update")
	assert.NoError(t, summary.Err())
}

func TestRunMissingPlatformDirectory(t *testing.T) {
	p := newProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(p.root, "ios")))
	p.addPackage(t, "@org/pkg-b", `{"ios":{"moduleClassName":"B"}}`)

	summary := p.run(t, logging.Discard(), types.PlatformIOS)
	for _, r := range summary.Results {
		assert.Equal(t, merge.OutcomeSkippedMissing, r.Outcome, r.Path)
	}
	_, statErr := os.Stat(filepath.Join(p.root, "ios"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunRecordsWriteFailureAndContinues(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{}}`)
	// A directory where the dependencies file should be cannot be merged.
	target := filepath.Join(p.root, "android", "app", "build.gradle.kts")
	require.NoError(t, os.Remove(target))
	require.NoError(t, os.MkdirAll(target, 0755))

	logger, buf := bufferLogger()
	summary := p.run(t, logger, types.PlatformAndroid)

	assert.Equal(t, 1, summary.FailedCount())
	assert.Contains(t, buf.String(), "Autolinking finished with failures")
	assert.ErrorContains(t, summary.Err(), "app/build.gradle.kts")
	assert.Contains(t, p.read(t, "android/settings.gradle.kts"), `include(":pkg-a")`)
	assert.Contains(t, p.read(t, registryPath), "GeneratedLynxExtensions")
}

func TestRunDropsSanitizedNameCollision(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "@a/b", `{"android":{}}`)
	p.addPackage(t, "a_b", `{"android":{}}`)

	logger, buf := bufferLogger()
	summary := p.run(t, logger, types.PlatformAndroid)

	require.Len(t, summary.Packages, 2)
	assert.Equal(t, "@a/b", summary.Packages[0].Name)
	assert.Equal(t, "a_b", summary.Packages[1].Name)

	settings := p.read(t, "android/settings.gradle.kts")
	assert.Equal(t, 1, strings.Count(settings, `include(":a_b")`))
	assert.Contains(t, settings, "node_modules/@a/b/android")
	assert.NotContains(t, settings, "node_modules/a_b/android")
	assert.Contains(t, buf.String(), "colliding identifier")

	var out bytes.Buffer
	summary.Print(&out)
	assert.Contains(t, out.String(), "- @a/b")
	assert.Regexp(t, `- a_b .*\[1 warning\(s\)\]`, out.String())
	assert.NotRegexp(t, `- @a/b .*warning`, out.String())
	assert.Contains(t, out.String(), "1 warning(s)")
}

func TestRunWarnsOnRegistrationConflict(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "first", `{"android":{"moduleClassName":"one.Module"}}`)
	p.addPackage(t, "second", `{"android":{"moduleClassName":"two.Module"}}`)

	logger, buf := bufferLogger()
	summary := p.run(t, logger, types.PlatformAndroid)

	registry := p.read(t, registryPath)
	assert.Contains(t, registry, "one.Module::class.java")
	assert.NotContains(t, registry, "two.Module")
	assert.Contains(t, p.read(t, "android/settings.gradle.kts"), `include(":second")`)
	assert.Contains(t, buf.String(), "Skipping native module registration")
	assert.NotEmpty(t, summary.Diagnostics)
}

func TestRunHonoursCancellation(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{}}`)

	linker, err := New(Options{ProjectRoot: p.root, Config: p.cfg, Platforms: []types.Platform{types.PlatformAndroid}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = linker.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, settingsFixture, p.read(t, "android/settings.gradle.kts"))
}

func TestNewDetectsPlatforms(t *testing.T) {
	p := newProject(t)
	linker, err := New(Options{ProjectRoot: p.root, Config: p.cfg})
	require.NoError(t, err)
	assert.Equal(t, []types.Platform{types.PlatformAndroid, types.PlatformIOS}, linker.Platforms())

	require.NoError(t, os.RemoveAll(filepath.Join(p.root, "ios")))
	assert.Equal(t, []types.Platform{types.PlatformAndroid}, DetectPlatforms(p.root))

	_, err = New(Options{ProjectRoot: p.root})
	assert.True(t, tamererrors.IsConfigError(err))
}

func TestSummaryPrint(t *testing.T) {
	p := newProject(t)
	p.addPackage(t, "pkg-a", `{"android":{"moduleClassName":"a.b.C"}}`)
	p.addPackage(t, "@org/pkg-b", `{"ios":{}}`)

	summary := p.run(t, logging.Discard())

	var out bytes.Buffer
	summary.Print(&out)
	text := out.String()

	assert.Contains(t, text, "Found 2 native package(s):")
	assert.Contains(t, text, "  - @org/pkg-b (ios)")
	assert.Contains(t, text, "  - pkg-a (android)")
	assert.Contains(t, text, "android:")
	assert.Contains(t, text, "updated         android/settings.gradle.kts")
	assert.Contains(t, text, "generated       "+registryPath)
	assert.Contains(t, text, "appended        ios/Podfile")
	assert.Contains(t, text, "1 warning(s)")
}

func TestSummaryPrintEmpty(t *testing.T) {
	s := &Summary{}
	var out bytes.Buffer
	s.Print(&out)
	assert.Equal(t, "No native packages found.\n", out.String())
	assert.NoError(t, s.Err())
}
