// Package emit renders the text tamer splices into host projects.
//
// Every emitter is a pure function of the descriptor list and the host
// identity. Emitters always return a well-formed body, including for an empty
// list, so a rerun after the last native package is removed clears the stale
// entries instead of leaving them behind.
package emit

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/nanofuxion/tamer4lynx/internal/naming"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// Kind identifies one generated artifact.
type Kind string

const (
	KindBuildGraph   Kind = "build-graph"
	KindDependencies Kind = "dependencies"
	KindRegistry     Kind = "registry"
)

// Generated-section header lines.
const (
	headerGenerated = "This section is automatically generated by Tamer4Lynx."
	headerOverwrite = "Manual edits will be overwritten."
)

// Host carries the host project identity the emitters need.
type Host struct {
	// ProjectRoot is the absolute project directory holding android/ and ios/.
	ProjectRoot string
	// AndroidPackage is the application's JVM package, e.g. com.example.app.
	AndroidPackage string
	// IOSAppName is the Xcode target directory name under ios/.
	IOSAppName string
}

// PlatformRoot returns the host project directory for p.
func (h Host) PlatformRoot(p types.Platform) string {
	return filepath.Join(h.ProjectRoot, string(p))
}

// Artifact is one piece of generated text together with where it goes.
type Artifact struct {
	Platform    types.Platform
	Kind        Kind
	TargetPath  string
	StartMarker string
	EndMarker   string
	Body        string
	// Owned artifacts are whole files written outright instead of merged
	// between markers.
	Owned bool
}

// Registration is one native module entry of a platform registry.
type Registration struct {
	// Package is the owning package name; registries are keyed by it.
	Package string
	// ClassName is the fully qualified native class.
	ClassName string
	// SimpleName is the class name without its package.
	SimpleName string
	// Module is the native module that must be imported, if any.
	Module string
}

// Conflict reports a registration that was left out because an earlier
// package already registers the same simple class name.
type Conflict struct {
	Package    string
	Other      string
	SimpleName string
}

// Registrations collects the registry entries for p, ordered by package
// name. Packages without a moduleClassName contribute nothing. A package whose
// simple class name was already taken earlier in descriptor order is reported
// as a Conflict instead.
func Registrations(descriptors []*types.ModuleDescriptor, p types.Platform) ([]Registration, []Conflict) {
	var regs []Registration
	var conflicts []Conflict
	owner := make(map[string]string)

	for _, d := range descriptors {
		cfg, ok := d.Platform(p)
		if !ok || cfg.ModuleClassName == "" {
			continue
		}
		simple := naming.SimpleClassName(cfg.ModuleClassName)
		if simple == "" {
			continue
		}
		if other, taken := owner[simple]; taken {
			conflicts = append(conflicts, Conflict{Package: d.Name, Other: other, SimpleName: simple})
			continue
		}
		owner[simple] = d.Name

		reg := Registration{
			Package:    d.Name,
			ClassName:  cfg.ModuleClassName,
			SimpleName: simple,
		}
		if p == types.PlatformIOS {
			reg.Module = naming.SwiftModuleName(PodName(d))
		}
		regs = append(regs, reg)
	}
	sort.SliceStable(regs, func(i, j int) bool { return regs[i].Package < regs[j].Package })
	return regs, conflicts
}

// Artifacts returns every artifact for p, in the order they are applied.
func Artifacts(descriptors []*types.ModuleDescriptor, p types.Platform, host Host) []Artifact {
	switch p {
	case types.PlatformAndroid:
		regs, _ := Registrations(descriptors, p)
		return []Artifact{
			AndroidSettings(descriptors, host),
			AndroidDependencies(descriptors, host),
			AndroidRegistry(regs, host),
		}
	case types.PlatformIOS:
		regs, _ := Registrations(descriptors, p)
		return []Artifact{
			IOSPods(descriptors, host),
			IOSRegistry(regs, host),
		}
	default:
		return nil
	}
}

// relPath returns target relative to base using forward slashes, the form
// Gradle and CocoaPods expect on every OS.
func relPath(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		rel = target
	}
	return filepath.ToSlash(rel)
}

// header renders the generated-section header with the given comment prefix.
func header(prefix string) string {
	return prefix + headerGenerated + "\n" + prefix + headerOverwrite
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func uniqueSorted(regs []Registration, key func(Registration) string) []string {
	seen := make(map[string]bool, len(regs))
	out := make([]string, 0, len(regs))
	for _, r := range regs {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
