// Package scaffolding creates Lynx host projects: the android/ Gradle project
// and the ios/ CocoaPods project that tamer later links native packages into.
package scaffolding

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/emit"
	"github.com/nanofuxion/tamer4lynx/internal/merge"
	"github.com/nanofuxion/tamer4lynx/internal/naming"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// ProjectGenerator writes host project skeletons under a project root.
type ProjectGenerator struct {
	root string
	out  io.Writer
}

// NewProjectGenerator creates a generator for the project at root. Progress
// messages go to out.
func NewProjectGenerator(root string, out io.Writer) *ProjectGenerator {
	if out == nil {
		out = io.Discard
	}
	return &ProjectGenerator{root: root, out: out}
}

// NewTemplateContext derives the template values from the host config.
func NewTemplateContext(cfg *config.Config, host emit.Host) TemplateContext {
	ctx := TemplateContext{
		AppName:     cfg.Android.AppName,
		PackageName: cfg.Android.PackageName,
		PackagePath: naming.PackagePath(cfg.Android.PackageName),
		BundleID:    cfg.IOS.BundleID,
		ThemeName:   ThemeName(cfg.Android.AppName),
	}
	ctx.SettingsBlock = blockOf(emit.AndroidSettings(nil, host))
	ctx.DependenciesBlock = blockOf(emit.AndroidDependencies(nil, host))
	ctx.PodsBlock = blockOf(emit.IOSPods(nil, host))
	return ctx
}

// ThemeName turns an app name into a resource identifier: "my app" becomes
// "MyApp".
func ThemeName(appName string) string {
	words := strings.FieldsFunc(appName, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	name := strings.Join(words, " ")
	name = strings.ReplaceAll(cases.Title(language.English, cases.NoLower).String(name), " ", "")
	if name == "" {
		return "App"
	}
	return name
}

func blockOf(a emit.Artifact) string {
	return merge.Block(a.StartMarker, a.EndMarker, a.Body)
}

// CreateAndroid writes a fresh android/ project. An existing android/
// directory is removed first.
func (g *ProjectGenerator) CreateAndroid(cfg *config.Config) error {
	if err := cfg.RequireProjectIdentity(types.PlatformAndroid); err != nil {
		return err
	}

	host := g.host(cfg)
	dir := host.PlatformRoot(types.PlatformAndroid)
	if _, err := os.Stat(dir); err == nil {
		fmt.Fprintf(g.out, "🧹 Removing existing directory: %s\n", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}

	fmt.Fprintf(g.out, "🚀 Creating a new Tamer4Lynx project in: %s\n", dir)

	tctx := NewTemplateContext(cfg, host)
	if err := g.renderAll(dir, androidTemplates(), tctx, true); err != nil {
		return err
	}

	catalog, err := DefaultCatalog().Marshal()
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "gradle", "libs.versions.toml"), catalog); err != nil {
		return err
	}

	registry := emit.AndroidRegistry(nil, host)
	if _, err := merge.WriteOwned(registry.TargetPath, registry.Body); err != nil {
		return err
	}

	if err := g.writeLocalProperties(cfg, dir); err != nil {
		return err
	}

	fmt.Fprintf(g.out, "✅ Android Kotlin project created at %s\n", dir)
	return nil
}

// CreateIOS writes the ios/ project files. Files that already exist are
// kept, so an Xcode project created by hand is not clobbered.
func (g *ProjectGenerator) CreateIOS(cfg *config.Config) error {
	if err := cfg.RequireProjectIdentity(types.PlatformIOS); err != nil {
		return err
	}

	host := g.host(cfg)
	dir := host.PlatformRoot(types.PlatformIOS)
	fmt.Fprintf(g.out, "🚀 Creating iOS project files in: %s\n", dir)

	tctx := NewTemplateContext(cfg, host)
	tctx.AppName = cfg.IOS.AppName
	if err := g.renderAll(dir, iosTemplates(), tctx, false); err != nil {
		return err
	}

	registry := emit.IOSRegistry(nil, host)
	if _, err := os.Stat(registry.TargetPath); os.IsNotExist(err) {
		if _, err := merge.WriteOwned(registry.TargetPath, registry.Body); err != nil {
			return err
		}
	}

	fmt.Fprintf(g.out, "✅ iOS project files created at %s\n", dir)
	return nil
}

func (g *ProjectGenerator) host(cfg *config.Config) emit.Host {
	return emit.Host{
		ProjectRoot:    g.root,
		AndroidPackage: cfg.Android.PackageName,
		IOSAppName:     cfg.IOS.AppName,
	}
}

func (g *ProjectGenerator) renderAll(dir string, templates []FileTemplate, tctx TemplateContext, overwrite bool) error {
	for _, ft := range templates {
		rel, err := render(ft.Path, ft.Path, tctx)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))

		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(g.out, "⚠️  Keeping existing %s\n", path)
				continue
			}
		}

		content, err := render(ft.Path, ft.Content, tctx)
		if err != nil {
			return err
		}
		if err := writeFile(path, []byte(content)); err != nil {
			return err
		}
	}
	return nil
}

// writeLocalProperties points Gradle at the Android SDK: from android.sdk
// when configured, otherwise by copying the project root's local.properties.
func (g *ProjectGenerator) writeLocalProperties(cfg *config.Config, dir string) error {
	target := filepath.Join(dir, "local.properties")

	if sdk := expandHome(cfg.Android.SDK); sdk != "" {
		content := "sdk.dir=" + filepath.ToSlash(sdk) + "\n"
		if err := writeFile(target, []byte(content)); err != nil {
			return err
		}
		fmt.Fprintln(g.out, "📦 Created local.properties from tamer.config.json.")
		return nil
	}

	existing, err := os.ReadFile(filepath.Join(g.root, "local.properties"))
	if err != nil {
		fmt.Fprintln(g.out, "⚠️  android.sdk not found in tamer.config.json. You may need to create local.properties manually.")
		return nil
	}
	if err := writeFile(target, existing); err != nil {
		return err
	}
	fmt.Fprintln(g.out, "📦 Copied existing local.properties to the android project.")
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// render executes one template string against the context.
func render(name, content string, tctx TemplateContext) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, tctx); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
