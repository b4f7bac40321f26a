// Package bundle builds the Lynx JavaScript bundle and copies it into a host
// project, where the generated template providers load it at startup.
package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nanofuxion/tamer4lynx/internal/config"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/toolchain"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// FileName is the bundle the Lynx build writes to dist/ and the host apps load.
const FileName = "main.lynx.bundle"

// DefaultCommand builds the Lynx project.
var DefaultCommand = []string{"npm", "run", "build"}

// Bundler builds and deploys the Lynx bundle.
type Bundler struct {
	Runner  toolchain.Runner
	Command []string
	Out     io.Writer
}

// NewBundler returns a Bundler running DefaultCommand.
func NewBundler() *Bundler {
	return &Bundler{Runner: toolchain.NewExecRunner(), Command: DefaultCommand, Out: os.Stdout}
}

// Destination returns the directory the bundle is copied to for p.
func Destination(root string, cfg *config.Config, p types.Platform) (string, error) {
	switch p {
	case types.PlatformAndroid:
		return filepath.Join(root, "android", "app", "src", "main", "assets"), nil
	case types.PlatformIOS:
		if err := cfg.RequireHostIdentity(types.PlatformIOS); err != nil {
			return "", err
		}
		return filepath.Join(root, "ios", cfg.IOS.AppName), nil
	default:
		return "", fmt.Errorf("unsupported platform %q", p)
	}
}

// Bundle runs the build in the Lynx project and copies dist/main.lynx.bundle
// into the host project for p. It returns the copied file's path.
func (b *Bundler) Bundle(ctx context.Context, cfg *config.Config, p types.Platform) (string, error) {
	out := b.Out
	if out == nil {
		out = io.Discard
	}

	root, err := cfg.ProjectRoot()
	if err != nil {
		return "", err
	}
	destDir, err := Destination(root, cfg, p)
	if err != nil {
		return "", err
	}
	lynxDir, err := cfg.LynxProjectDir()
	if err != nil {
		return "", err
	}

	command := b.Command
	if len(command) == 0 {
		command = DefaultCommand
	}

	fmt.Fprintln(out, "📦 Starting the build process...")
	if err := b.Runner.Run(ctx, lynxDir, command[0], command[1:]...); err != nil {
		return "", tamererrors.ErrBuildFailed(lynxDir, err)
	}
	fmt.Fprintln(out, "✅ Build completed successfully.")

	source := filepath.Join(lynxDir, "dist", FileName)
	if _, err := os.Stat(source); err != nil {
		return "", tamererrors.ErrBundleMissing(source)
	}

	if p == types.PlatformAndroid {
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return "", tamererrors.NewIOError(tamererrors.ErrCodeWriteFailed,
				"failed to create the assets directory", err).WithFile(destDir)
		}
	} else if info, err := os.Stat(destDir); err != nil || !info.IsDir() {
		return "", tamererrors.ErrTargetMissing(destDir)
	}

	dest := filepath.Join(destDir, FileName)
	fmt.Fprintf(out, "🚚 Copying bundle to %s project...\n", p)
	if err := copyFile(source, dest); err != nil {
		return "", tamererrors.NewIOError(tamererrors.ErrCodeWriteFailed,
			"failed to copy the bundle file", err).WithFile(dest)
	}
	fmt.Fprintf(out, "✨ Successfully copied bundle to: %s\n", dest)
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
