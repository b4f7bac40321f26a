package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nanofuxion/tamer4lynx/internal/naming"
	"github.com/nanofuxion/tamer4lynx/internal/types"
)

// Android marker pairs.
const (
	SettingsStartMarker     = "// GENERATED AUTOLINK START"
	SettingsEndMarker       = "// GENERATED AUTOLINK END"
	DependenciesStartMarker = "// GENERATED AUTOLINK DEPENDENCIES START"
	DependenciesEndMarker   = "// GENERATED AUTOLINK DEPENDENCIES END"
)

// AndroidRegistryFile is the generated Kotlin registry's file name.
const AndroidRegistryFile = "GeneratedLynxExtensions.kt"

// SettingsPath returns android/settings.gradle.kts.
func SettingsPath(host Host) string {
	return filepath.Join(host.PlatformRoot(types.PlatformAndroid), "settings.gradle.kts")
}

// AppBuildPath returns android/app/build.gradle.kts.
func AppBuildPath(host Host) string {
	return filepath.Join(host.PlatformRoot(types.PlatformAndroid), "app", "build.gradle.kts")
}

// AndroidRegistryPath returns the generated Kotlin registry location, derived
// from the application package.
func AndroidRegistryPath(host Host) string {
	return filepath.Join(host.PlatformRoot(types.PlatformAndroid),
		"app", "src", "main", "kotlin",
		filepath.FromSlash(naming.PackagePath(host.AndroidPackage)),
		"generated", AndroidRegistryFile)
}

// AndroidSettings renders the Gradle include list for settings.gradle.kts.
func AndroidSettings(descriptors []*types.ModuleDescriptor, host Host) Artifact {
	root := host.PlatformRoot(types.PlatformAndroid)
	lines := []string{header("// ")}

	android := types.FilterPlatform(descriptors, types.PlatformAndroid)
	for _, d := range android {
		id := naming.Sanitize(d.Name)
		projectDir := relPath(root, filepath.Join(d.OriginPath, d.SourceDir(types.PlatformAndroid)))
		lines = append(lines,
			fmt.Sprintf("include(\":%s\")", id),
			fmt.Sprintf("project(\":%s\").projectDir = file(\"%s\")", id, projectDir),
		)
	}
	if len(android) == 0 {
		lines = append(lines, `println("No native modules found by Tamer4Lynx autolinker.")`)
	}

	return Artifact{
		Platform:    types.PlatformAndroid,
		Kind:        KindBuildGraph,
		TargetPath:  SettingsPath(host),
		StartMarker: SettingsStartMarker,
		EndMarker:   SettingsEndMarker,
		Body:        joinLines(lines),
	}
}

// AndroidDependencies renders the app module's implementation(project(...)) list.
func AndroidDependencies(descriptors []*types.ModuleDescriptor, host Host) Artifact {
	const indent = "    "
	lines := []string{header(indent + "// ")}

	android := types.FilterPlatform(descriptors, types.PlatformAndroid)
	for _, d := range android {
		lines = append(lines, fmt.Sprintf("%simplementation(project(\":%s\"))", indent, naming.Sanitize(d.Name)))
	}
	if len(android) == 0 {
		lines = append(lines, indent+"// No native dependencies found to link.")
	}

	return Artifact{
		Platform:    types.PlatformAndroid,
		Kind:        KindDependencies,
		TargetPath:  AppBuildPath(host),
		StartMarker: DependenciesStartMarker,
		EndMarker:   DependenciesEndMarker,
		Body:        joinLines(lines),
	}
}

// AndroidRegistry renders GeneratedLynxExtensions.kt, which registers every
// native module with LynxEnv. Module classes are referenced by their fully
// qualified name so they never clash with the file's own imports. The host application calls
// GeneratedLynxExtensions.register once during startup.
func AndroidRegistry(regs []Registration, host Host) Artifact {
	var b strings.Builder

	fmt.Fprintf(&b, "package %s.generated\n\n", host.AndroidPackage)
	b.WriteString("import android.content.Context\n")
	b.WriteString("import com.lynx.tasm.LynxEnv\n")
	b.WriteString(`
/**
 * This file is generated by the Tamer4Lynx autolinker.
 * Do not edit this file manually.
 */
object GeneratedLynxExtensions {
    fun register(context: Context) {
`)
	if len(regs) == 0 {
		b.WriteString("        // No native modules found to register.\n")
	}
	for _, r := range regs {
		fmt.Fprintf(&b, "        LynxEnv.inst().registerModule(\"%s\", %s::class.java) // %s\n",
			r.SimpleName, r.ClassName, r.Package)
	}
	b.WriteString("    }\n}\n")

	return Artifact{
		Platform:   types.PlatformAndroid,
		Kind:       KindRegistry,
		TargetPath: AndroidRegistryPath(host),
		Body:       b.String(),
		Owned:      true,
	}
}
