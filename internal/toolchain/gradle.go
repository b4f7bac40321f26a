package toolchain

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
)

// DefaultGradleVersion is the Gradle release new Android projects wrap.
const DefaultGradleVersion = "8.14.2"

// DefaultGradleBaseURL serves Gradle distributions.
const DefaultGradleBaseURL = "https://services.gradle.org/distributions"

// GradleInstaller downloads a Gradle distribution into Dir and uses it to
// generate a project's Gradle wrapper.
type GradleInstaller struct {
	BaseURL string
	// Dir receives the extracted distributions, one gradle-<version>
	// directory each.
	Dir    string
	Client *http.Client
	Runner Runner
	Out    io.Writer
}

// NewGradleInstaller returns an installer that unpacks into dir.
func NewGradleInstaller(dir string) *GradleInstaller {
	return &GradleInstaller{
		BaseURL: DefaultGradleBaseURL,
		Dir:     dir,
		Client:  http.DefaultClient,
		Runner:  NewExecRunner(),
		Out:     os.Stdout,
	}
}

// HomeDir returns where version is extracted.
func (g *GradleInstaller) HomeDir(version string) string {
	return filepath.Join(g.Dir, "gradle-"+version)
}

// Executable returns the gradle launcher of an extracted version.
func (g *GradleInstaller) Executable(version string) string {
	name := "gradle"
	if runtime.GOOS == "windows" {
		name = "gradle.bat"
	}
	return filepath.Join(g.HomeDir(version), "bin", name)
}

// Download fetches and extracts version unless it is already present.
func (g *GradleInstaller) Download(ctx context.Context, version string) error {
	home := g.HomeDir(version)
	if info, err := os.Stat(home); err == nil && info.IsDir() {
		fmt.Fprintf(g.out(), "✅ Gradle %s already exists at %s. Skipping download.\n", version, home)
		return nil
	}
	if err := os.MkdirAll(g.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", g.Dir, err)
	}

	url := strings.TrimSuffix(g.BaseURL, "/") + "/gradle-" + version + "-bin.zip"
	fmt.Fprintf(g.out(), "📥 Downloading Gradle %s from %s...\n", version, url)

	zipPath := filepath.Join(g.Dir, "gradle-"+version+".zip")
	if err := g.fetch(ctx, url, zipPath); err != nil {
		return err
	}
	defer os.Remove(zipPath)

	fmt.Fprintln(g.out(), "✅ Download complete. Extracting...")
	if err := Unzip(zipPath, g.Dir); err != nil {
		return fmt.Errorf("failed to extract Gradle zip: %w", err)
	}

	fmt.Fprintf(g.out(), "✅ Gradle %s extracted to %s\n", version, home)
	return nil
}

func (g *GradleInstaller) fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return tamererrors.NewNetworkError(tamererrors.ErrCodeDownloadFailed, "failed to download "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tamererrors.NewNetworkError(tamererrors.ErrCodeDownloadFailed,
			fmt.Sprintf("failed to download %s: %s", url, resp.Status), nil)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return tamererrors.NewNetworkError(tamererrors.ErrCodeDownloadFailed, "download interrupted", err)
	}
	return f.Close()
}

// SetupWrapper makes sure version is installed and runs `gradle wrapper` in
// androidDir.
func (g *GradleInstaller) SetupWrapper(ctx context.Context, androidDir, version string) error {
	fmt.Fprintln(g.out(), "📦 Setting up Gradle wrapper...")
	if err := g.Download(ctx, version); err != nil {
		return err
	}

	exe := g.Executable(version)
	if _, err := os.Stat(exe); err != nil {
		return tamererrors.NewBuildError(tamererrors.ErrCodeToolMissing,
			"Gradle executable not found", err).WithFile(exe)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(exe, 0755); err != nil {
			return fmt.Errorf("failed to make %s executable: %w", exe, err)
		}
	}

	fmt.Fprintf(g.out(), "🚀 Executing Gradle wrapper in: %s\n", androidDir)
	if err := g.Runner.Run(ctx, androidDir, exe, "wrapper"); err != nil {
		return tamererrors.ErrBuildFailed(androidDir, err)
	}

	fmt.Fprintln(g.out(), "✅ Gradle wrapper created successfully.")
	return nil
}

func (g *GradleInstaller) out() io.Writer {
	if g.Out == nil {
		return io.Discard
	}
	return g.Out
}

// Unzip extracts archive into dest. Entries that would land outside dest
// are rejected.
func Unzip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	base, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	for _, f := range r.File {
		target := filepath.Join(base, filepath.FromSlash(f.Name))
		if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
			return fmt.Errorf("illegal path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
