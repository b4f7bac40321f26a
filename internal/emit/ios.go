package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nanofuxion/tamer4lynx/internal/naming"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// Podfile marker pair.
const (
	PodsStartMarker = "# GENERATED AUTOLINK PODS START"
	PodsEndMarker   = "# GENERATED AUTOLINK PODS END"
)

// IOSRegistryFile is the generated Swift registry's file name.
const IOSRegistryFile = "GeneratedLynxExtensions.swift"

// PodfilePath returns ios/Podfile.
func PodfilePath(host Host) string {
	return filepath.Join(host.PlatformRoot(types.PlatformIOS), "Podfile")
}

// IOSRegistryPath returns ios/<appName>/Generated/GeneratedLynxExtensions.swift.
func IOSRegistryPath(host Host) string {
	return filepath.Join(host.PlatformRoot(types.PlatformIOS), host.IOSAppName, "Generated", IOSRegistryFile)
}

// PodName returns the CocoaPods name of a package: the manifest's podName
// when set, otherwise the sanitized package name.
func PodName(d *types.ModuleDescriptor) string {
	if cfg, ok := d.Platform(types.PlatformIOS); ok && cfg.PodName != "" {
		return cfg.PodName
	}
	return naming.Sanitize(d.Name)
}

// IOSPods renders the local pod list for the Podfile.
func IOSPods(descriptors []*types.ModuleDescriptor, host Host) Artifact {
	const indent = "  "
	root := host.PlatformRoot(types.PlatformIOS)
	lines := []string{header(indent + "# ")}

	ios := types.FilterPlatform(descriptors, types.PlatformIOS)
	for _, d := range ios {
		podPath := relPath(root, filepath.Join(d.OriginPath, d.SourceDir(types.PlatformIOS)))
		lines = append(lines, fmt.Sprintf("%spod '%s', :path => '%s'", indent, PodName(d), podPath))
	}
	if len(ios) == 0 {
		lines = append(lines, indent+"# No native modules found by Tamer4Lynx autolinker.")
	}

	return Artifact{
		Platform:    types.PlatformIOS,
		Kind:        KindBuildGraph,
		TargetPath:  PodfilePath(host),
		StartMarker: PodsStartMarker,
		EndMarker:   PodsEndMarker,
		Body:        joinLines(lines),
	}
}

// IOSRegistry renders GeneratedLynxExtensions.swift. The app delegate calls
// GeneratedLynxExtensions.register(config) before creating its LynxView.
func IOSRegistry(regs []Registration, host Host) Artifact {
	var b strings.Builder

	b.WriteString("// This file is generated by the Tamer4Lynx autolinker.\n")
	b.WriteString("// Do not edit this file manually.\n\n")
	b.WriteString("import Foundation\n")
	b.WriteString("import Lynx\n")
	for _, mod := range uniqueSorted(regs, func(r Registration) string { return r.Module }) {
		fmt.Fprintf(&b, "import %s\n", mod)
	}
	b.WriteString("\nenum GeneratedLynxExtensions {\n")
	b.WriteString("    static func register(_ config: LynxConfig) {\n")
	if len(regs) == 0 {
		b.WriteString("        // No native modules found to register.\n")
	}
	for _, r := range regs {
		fmt.Fprintf(&b, "        config.register(%s.self) // %s\n", r.SimpleName, r.Package)
	}
	b.WriteString("    }\n}\n")

	return Artifact{
		Platform:   types.PlatformIOS,
		Kind:       KindRegistry,
		TargetPath: IOSRegistryPath(host),
		Body:       b.String(),
		Owned:      true,
	}
}
