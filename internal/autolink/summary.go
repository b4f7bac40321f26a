package autolink

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/nanofuxion/tamer4lynx/internal/emit"
	tamererrors "github.com/nanofuxion/tamer4lynx/internal/errors"
	"github.com/nanofuxion/tamer4lynx/internal/merge"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// Result is the outcome for one generated artifact.
type Result struct {
	Platform types.Platform
	Kind     emit.Kind
	Path     string
	Outcome  merge.Outcome
	Err      error
}

// Summary reports one autolink pass.
type Summary struct {
	Root        string
	Platforms   []types.Platform
	Packages    []*types.ModuleDescriptor
	Results     []Result
	Diagnostics []tamererrors.Diagnostic

	collector *tamererrors.ErrorCollector
}

// FailedCount returns how many artifacts could not be written.
func (s *Summary) FailedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == merge.OutcomeFailed {
			n++
		}
	}
	return n
}

// Err returns an error describing the failed artifacts, or nil.
func (s *Summary) Err() error {
	var failed []string
	for _, r := range s.Results {
		if r.Outcome == merge.OutcomeFailed {
			failed = append(failed, s.rel(r.Path))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("failed to update %d file(s): %s", len(failed), strings.Join(failed, ", "))
}

// Print writes the human-readable summary: the packages found, then each
// artifact's outcome grouped by platform.
func (s *Summary) Print(w io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if len(s.Packages) == 0 {
		fmt.Fprintln(w, "No native packages found.")
	} else {
		fmt.Fprintf(w, "Found %s native package(s):\n", bold(len(s.Packages)))
		for _, d := range s.Packages {
			label := "(no platforms)"
			if platforms := d.PlatformNames(); len(platforms) > 0 {
				label = "(" + strings.Join(platforms, ", ") + ")"
			}
			line := fmt.Sprintf("  - %s %s", d.Name, faint(label))
			if n := s.packageWarnings(d.Name); n > 0 {
				line += " " + color.YellowString("[%d warning(s)]", n)
			}
			fmt.Fprintln(w, line)
		}
	}

	var current types.Platform
	for _, r := range s.Results {
		if r.Platform != current {
			current = r.Platform
			fmt.Fprintf(w, "%s:\n", bold(current.String()))
		}
		fmt.Fprintf(w, "  %s %s\n", outcomeLabel(r.Outcome), s.rel(r.Path))
	}

	if warnings := s.warningCount(); warnings > 0 {
		fmt.Fprintf(w, "%s\n", color.New(color.FgYellow).Sprintf("%d warning(s), see log output above", warnings))
	}
}

func (s *Summary) packageWarnings(name string) int {
	if s.collector == nil {
		return 0
	}
	return len(s.collector.ByPackage(name))
}

func (s *Summary) warningCount() int {
	n := 0
	for _, d := range s.Diagnostics {
		if d.Severity == tamererrors.ErrorSeverityWarning {
			n++
		}
	}
	return n
}

func (s *Summary) rel(path string) string {
	if s.Root == "" {
		return path
	}
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func outcomeLabel(o merge.Outcome) string {
	label := fmt.Sprintf("%-15s", o.String())
	switch o {
	case merge.OutcomeUpdated, merge.OutcomeGenerated:
		return color.GreenString(label)
	case merge.OutcomeAppended, merge.OutcomeSkippedMissing:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}
