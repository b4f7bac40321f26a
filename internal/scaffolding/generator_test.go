package scaffolding

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanofuxion/tamer4lynx/internal/autolink"
	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/emit"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/merge"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Android: config.AndroidConfig{AppName: "Demo App", PackageName: "com.example.demo", SDK: "/opt/android-sdk"},
		IOS:     config.IOSConfig{AppName: "DemoApp", BundleID: "com.example.demo"},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCreateAndroid(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer
	g := NewProjectGenerator(root, &out)

	require.NoError(t, g.CreateAndroid(testConfig()))

	android := filepath.Join(root, "android")
	for _, rel := range []string{
		"settings.gradle.kts",
		"build.gradle.kts",
		"gradle.properties",
		"gradle/libs.versions.toml",
		"app/build.gradle.kts",
		"app/src/main/AndroidManifest.xml",
		"app/src/main/res/values/themes.xml",
		"app/src/main/kotlin/com/example/demo/MainApplication.kt",
		"app/src/main/kotlin/com/example/demo/MainActivity.kt",
		"app/src/main/kotlin/com/example/demo/TemplateProvider.kt",
		"app/src/main/kotlin/com/example/demo/generated/GeneratedLynxExtensions.kt",
		"app/src/main/assets/.gitkeep",
		"local.properties",
	} {
		_, err := os.Stat(filepath.Join(android, filepath.FromSlash(rel)))
		assert.NoError(t, err, rel)
	}

	settings := readFile(t, filepath.Join(android, "settings.gradle.kts"))
	assert.Contains(t, settings, `rootProject.name = "Demo App"`)
	assert.Contains(t, settings, emit.SettingsStartMarker)
	assert.Contains(t, settings, emit.SettingsEndMarker)

	app := readFile(t, filepath.Join(android, "app", "build.gradle.kts"))
	assert.Contains(t, app, `namespace = "com.example.demo"`)
	assert.Contains(t, app, `applicationId = "com.example.demo"`)
	assert.Contains(t, app, emit.DependenciesStartMarker)

	manifest := readFile(t, filepath.Join(android, "app", "src", "main", "AndroidManifest.xml"))
	assert.Contains(t, manifest, `android:theme="@style/Theme.DemoApp"`)
	assert.Contains(t, manifest, `android:name=".MainApplication"`)

	application := readFile(t, filepath.Join(android, "app", "src", "main", "kotlin", "com", "example", "demo", "MainApplication.kt"))
	assert.Contains(t, application, "import com.example.demo.generated.GeneratedLynxExtensions")
	assert.Contains(t, application, "GeneratedLynxExtensions.register(this)")

	assert.Equal(t, "sdk.dir=/opt/android-sdk\n", readFile(t, filepath.Join(android, "local.properties")))
	assert.Contains(t, out.String(), "Android Kotlin project created")
}

func TestCreateAndroidCatalog(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, NewProjectGenerator(root, nil).CreateAndroid(testConfig()))

	data, err := os.ReadFile(filepath.Join(root, "android", "gradle", "libs.versions.toml"))
	require.NoError(t, err)

	catalog, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, "3.3.1", catalog.Versions["lynx"])
	assert.Equal(t, "org.lynxsdk.lynx:lynx", catalog.Libraries["lynx"].Module)
	assert.Equal(t, "lynx", catalog.Libraries["lynx"].Version.Ref)
	assert.Equal(t, "androidx.core", catalog.Libraries["androidx-core-ktx"].Group)
	assert.Equal(t, "com.android.application", catalog.Plugins["android-application"].ID)
	assert.NoError(t, catalog.Validate())
}

func TestCatalogValidate(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	c.Libraries["broken"] = module("x:y", "missing")
	assert.ErrorContains(t, c.Validate(), "missing")
	_, err := c.Marshal()
	assert.Error(t, err)
}

func TestCreateAndroidReplacesExistingProject(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "android", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))

	require.NoError(t, NewProjectGenerator(root, nil).CreateAndroid(testConfig()))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateAndroidCopiesLocalProperties(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "local.properties"), []byte("sdk.dir=/from/root\n"), 0644))

	cfg := testConfig()
	cfg.Android.SDK = ""
	require.NoError(t, NewProjectGenerator(root, nil).CreateAndroid(cfg))

	assert.Equal(t, "sdk.dir=/from/root\n", readFile(t, filepath.Join(root, "android", "local.properties")))
}

func TestCreateAndroidRequiresIdentity(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig()
	cfg.Android.AppName = ""

	err := NewProjectGenerator(root, nil).CreateAndroid(cfg)
	require.Error(t, err)
	assert.True(t, tamererrors.IsConfigError(err))
	_, statErr := os.Stat(filepath.Join(root, "android"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreateIOS(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, NewProjectGenerator(root, nil).CreateIOS(testConfig()))

	podfile := readFile(t, filepath.Join(root, "ios", "Podfile"))
	assert.Contains(t, podfile, "target 'DemoApp' do")
	assert.Contains(t, podfile, emit.PodsStartMarker)
	assert.Contains(t, podfile, emit.PodsEndMarker)

	delegate := readFile(t, filepath.Join(root, "ios", "DemoApp", "AppDelegate.swift"))
	assert.Contains(t, delegate, "GeneratedLynxExtensions.register(config)")

	plist := readFile(t, filepath.Join(root, "ios", "DemoApp", "Info.plist"))
	assert.Contains(t, plist, "<string>com.example.demo</string>")

	_, err := os.Stat(filepath.Join(root, "ios", "DemoApp", "Generated", "GeneratedLynxExtensions.swift"))
	assert.NoError(t, err)
}

func TestCreateIOSKeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	podfile := filepath.Join(root, "ios", "Podfile")
	require.NoError(t, os.MkdirAll(filepath.Dir(podfile), 0755))
	require.NoError(t, os.WriteFile(podfile, []byte("# hand written\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, NewProjectGenerator(root, &out).CreateIOS(testConfig()))

	assert.Equal(t, "# hand written\n", readFile(t, podfile))
	assert.Contains(t, out.String(), "Keeping existing")
}

func TestCreatedProjectsLinkInPlace(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig()
	g := NewProjectGenerator(root, nil)
	require.NoError(t, g.CreateAndroid(cfg))
	require.NoError(t, g.CreateIOS(cfg))

	pkg := filepath.Join(root, "node_modules", "lynx-ws")
	require.NoError(t, os.MkdirAll(pkg, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "tamer.json"),
		[]byte(`{"android":{"moduleClassName":"com.x.WsModule"},"ios":{"moduleClassName":"WsModule"}}`), 0644))

	linker, err := autolink.New(autolink.Options{ProjectRoot: root, Config: cfg})
	require.NoError(t, err)
	summary, err := linker.Run(context.Background())
	require.NoError(t, err)

	for _, r := range summary.Results {
		assert.NotEqual(t, merge.OutcomeAppended, r.Outcome, r.Path)
		assert.NotEqual(t, merge.OutcomeSkippedMissing, r.Outcome, r.Path)
	}
	assert.Equal(t, []types.Platform{types.PlatformAndroid, types.PlatformIOS}, linker.Platforms())

	podfile := readFile(t, filepath.Join(root, "ios", "Podfile"))
	assert.True(t, strings.Index(podfile, "pod 'lynx-ws'") < strings.Index(podfile, "\nend"))
}

func TestThemeName(t *testing.T) {
	assert.Equal(t, "DemoApp", ThemeName("Demo App"))
	assert.Equal(t, "MyLynxApp", ThemeName("my-lynx app"))
	assert.Equal(t, "IOSDemo", ThemeName("iOSDemo"))
	assert.Equal(t, "App", ThemeName("***"))
}
