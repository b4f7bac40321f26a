// Package naming turns package identifiers into names that are safe to use in
// generated Gradle, CocoaPods, Kotlin and Swift sources.
package naming

import (
	"strings"
)

// ScopeSigil prefixes scoped package names ("@org/pkg").
const ScopeSigil = "@"

// Sanitize maps a package name to a build-file safe identifier: the leading
// scope sigil is dropped and every path separator becomes an underscore.
//
//	Sanitize("@org/pkg-b") == "org_pkg-b"
//
// Distinct names may sanitize to the same identifier ("@a/b" and "a_b");
// callers that need uniqueness must check for it.
func Sanitize(name string) string {
	name = strings.TrimPrefix(name, ScopeSigil)
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

// SimpleClassName returns the last dot-separated segment of a fully
// qualified class name.
func SimpleClassName(fqcn string) string {
	fqcn = strings.TrimSpace(fqcn)
	if i := strings.LastIndex(fqcn, "."); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}

// PackagePath converts a dotted JVM package ("com.example.app") to its source
// directory form ("com/example/app").
func PackagePath(pkg string) string {
	return strings.ReplaceAll(strings.TrimSpace(pkg), ".", "/")
}

// SwiftModuleName converts a pod name to the Swift module CocoaPods builds for
// it: every character outside [A-Za-z0-9_] becomes an underscore and a leading
// digit is prefixed with one.
func SwiftModuleName(pod string) string {
	var b strings.Builder
	for i, r := range pod {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		switch {
		case i == 0 && isDigit:
			b.WriteByte('_')
			b.WriteRune(r)
		case isLetter || isDigit:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
