// Package discovery finds installed packages that carry a tamer.json manifest
// and turns them into module descriptors.
//
// The walk is deliberately shallow: the immediate children of the dependency
// root, plus one more level inside scope directories ("@org/*"). Every
// directory listing is sorted so that reruns over the same tree produce the
// same candidate order, which in turn keeps the generated build files stable.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nanofuxion/tamer4lynx/internal/logging"
	"github.com/nanofuxion/tamer4lynx/internal/naming"
)

// ManifestName is the reserved manifest filename looked up in every package.
const ManifestName = "tamer.json"

// DependencyDir is the dependency root relative to a project.
const DependencyDir = "node_modules"

// Candidate is a package directory that contains a manifest.
type Candidate struct {
	// Name is the package name, "<scope>/<dir>" for scoped packages.
	Name string
	// Path is the absolute package directory.
	Path string
	// ManifestPath is the absolute path to the package's tamer.json.
	ManifestPath string
}

// Discover lists packages under root that carry a manifest, in lexicographic
// order. A missing root is a normal state (nothing installed yet): it yields
// an empty list and a warning, never an error.
func Discover(ctx context.Context, root string, logger logging.Logger) ([]Candidate, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving dependency root: %w", err)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, nil, "node_modules directory not found, skipping autolinking",
				"path", absRoot)
			return []Candidate{}, nil
		}
		return nil, fmt.Errorf("reading dependency root: %w", err)
	}

	candidates := make([]Candidate, 0)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if skipEntry(name) {
			continue
		}
		dir := filepath.Join(absRoot, name)
		if !isDir(dir) {
			continue
		}

		if strings.HasPrefix(name, naming.ScopeSigil) {
			scoped, err := os.ReadDir(dir)
			if err != nil {
				logger.Warn(ctx, err, "Could not read scoped package directory", "path", dir)
				continue
			}
			for _, child := range scoped {
				if skipEntry(child.Name()) {
					continue
				}
				childDir := filepath.Join(dir, child.Name())
				if c, ok := candidateAt(name+"/"+child.Name(), childDir); ok {
					candidates = append(candidates, c)
				}
			}
			continue
		}

		if c, ok := candidateAt(name, dir); ok {
			candidates = append(candidates, c)
		}
	}

	logger.Debug(ctx, "Discovery finished", "root", absRoot, "candidates", len(candidates))
	return candidates, nil
}

func candidateAt(name, dir string) (Candidate, bool) {
	if !isDir(dir) {
		return Candidate{}, false
	}
	manifest := filepath.Join(dir, ManifestName)
	info, err := os.Stat(manifest)
	if err != nil || !info.Mode().IsRegular() {
		return Candidate{}, false
	}
	return Candidate{Name: name, Path: dir, ManifestPath: manifest}, true
}

// isDir follows symlinks so workspace-linked packages are discovered.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// skipEntry filters package-manager metadata such as .bin and .package-lock.json.
func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".")
}
