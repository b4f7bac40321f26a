//go:build property
// +build property

package naming

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSanitizeProperties checks the invariants generated build files rely on.
func TestSanitizeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sanitized names contain no separators", prop.ForAll(
		func(scope, pkg string) bool {
			out := Sanitize("@" + scope + "/" + pkg)
			return !strings.ContainsAny(out, `/\`)
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("sanitize is deterministic", prop.ForAll(
		func(name string) bool {
			return Sanitize(name) == Sanitize(name)
		},
		gen.AnyString(),
	))

	properties.Property("unscoped names without separators are unchanged", prop.ForAll(
		func(name string) bool {
			return Sanitize(name) == name
		},
		gen.RegexMatch(`^[a-z][a-z0-9._-]*$`),
	))

	properties.Property("scoped names map to scope_name", prop.ForAll(
		func(scope, pkg string) bool {
			return Sanitize("@"+scope+"/"+pkg) == scope+"_"+pkg
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]*$`),
		gen.RegexMatch(`^[a-z][a-z0-9-]*$`),
	))

	properties.Property("swift module names are identifiers", prop.ForAll(
		func(pod string) bool {
			out := SwiftModuleName(pod)
			for i, r := range out {
				ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
				if !ok {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
