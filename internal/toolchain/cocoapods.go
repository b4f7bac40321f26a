package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
)

// CocoaPods runs `pod install` for an iOS host project.
type CocoaPods struct {
	Runner   Runner
	LookPath func(string) (string, error)
	Out      io.Writer
}

// NewCocoaPods returns a CocoaPods driver using the system PATH.
func NewCocoaPods() *CocoaPods {
	return &CocoaPods{Runner: NewExecRunner(), LookPath: exec.LookPath, Out: os.Stdout}
}

// Installed reports whether the pod command is on PATH.
func (c *CocoaPods) Installed() bool {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	_, err := lookPath("pod")
	return err == nil
}

// Install runs `pod install` in iosDir, which must hold a Podfile.
func (c *CocoaPods) Install(ctx context.Context, iosDir string) error {
	out := c.Out
	if out == nil {
		out = io.Discard
	}

	if !c.Installed() {
		return tamererrors.NewBuildError(tamererrors.ErrCodeToolMissing,
			"CocoaPods is not installed; install it with `brew install cocoapods` or `sudo gem install cocoapods`", nil)
	}

	podfile := filepath.Join(iosDir, "Podfile")
	if _, err := os.Stat(podfile); err != nil {
		return tamererrors.ErrTargetMissing(podfile)
	}

	fmt.Fprintf(out, "🚀 Executing pod install in: %s\n", iosDir)
	if err := c.Runner.Run(ctx, iosDir, "pod", "install"); err != nil {
		return tamererrors.ErrBuildFailed(iosDir, err)
	}
	fmt.Fprintln(out, "✅ CocoaPods dependencies installed successfully.")
	return nil
}
