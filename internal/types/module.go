// Package types provides the shared records passed between tamer's discovery,
// emit and autolink packages. It has no dependencies so every stage can
// import it without cycles.
package types

import (
	"sort"
	"strings"
)

// Platform is a target platform tag as it appears in a package manifest.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Platforms lists every supported platform in the order they are linked.
var Platforms = []Platform{PlatformAndroid, PlatformIOS}

// String returns the platform tag.
func (p Platform) String() string {
	return string(p)
}

// DefaultSourceDir is the directory inside a package that holds its native
// code for p when the manifest does not override it.
func (p Platform) DefaultSourceDir() string {
	return string(p)
}

// ModuleDescriptor describes one discovered package that declares native
// contributions through its manifest.
type ModuleDescriptor struct {
	// Name is the package identifier, possibly scoped ("@org/pkg").
	Name string
	// OriginPath is the absolute path to the package root.
	OriginPath string
	// ManifestPath is the absolute path to the package's tamer.json.
	ManifestPath string
	// Platforms holds the manifest's top-level values exactly as parsed.
	// Keys the emitters do not know about are kept but ignored.
	Platforms map[string]interface{}
}

// PlatformConfig is the typed view of one platform entry of a manifest.
type PlatformConfig struct {
	// SourceDir overrides the package subdirectory holding native code.
	SourceDir string
	// ModuleClassName is the fully qualified native module class.
	ModuleClassName string
	// PodName overrides the CocoaPods pod name (ios only).
	PodName string
}

// Platform returns the typed config for p and whether the package contributes
// to p at all. An absent key, null or false means no contribution; any other
// value contributes, with fields only read from object values.
func (d *ModuleDescriptor) Platform(p Platform) (PlatformConfig, bool) {
	raw, ok := d.Platforms[string(p)]
	if !ok || raw == nil {
		return PlatformConfig{}, false
	}
	if b, isBool := raw.(bool); isBool && !b {
		return PlatformConfig{}, false
	}

	var cfg PlatformConfig
	if obj, isObj := raw.(map[string]interface{}); isObj {
		cfg.SourceDir = stringField(obj, "sourceDir")
		cfg.ModuleClassName = stringField(obj, "moduleClassName")
		cfg.PodName = stringField(obj, "podName")
	}
	return cfg, true
}

// Contributes reports whether the package contributes native code to p.
func (d *ModuleDescriptor) Contributes(p Platform) bool {
	_, ok := d.Platform(p)
	return ok
}

// SourceDir returns the package's native directory for p, relative to
// OriginPath.
func (d *ModuleDescriptor) SourceDir(p Platform) string {
	cfg, _ := d.Platform(p)
	if cfg.SourceDir != "" {
		return cfg.SourceDir
	}
	return p.DefaultSourceDir()
}

// PlatformNames returns the manifest's contributing platform tags in sorted
// order, including tags tamer does not link.
func (d *ModuleDescriptor) PlatformNames() []string {
	names := make([]string, 0, len(d.Platforms))
	for key := range d.Platforms {
		if d.Contributes(Platform(key)) {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names
}

func stringField(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// FilterPlatform returns the descriptors that contribute to p, preserving order.
func FilterPlatform(descriptors []*ModuleDescriptor, p Platform) []*ModuleDescriptor {
	out := make([]*ModuleDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Contributes(p) {
			out = append(out, d)
		}
	}
	return out
}
