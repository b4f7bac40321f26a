//go:build property
// +build property

package merge

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestMergeProperties tests the invariants of marker-based section merging.
func TestMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Text that never contains a marker.
	text := gen.AlphaString()

	properties.Property("content outside the markers is preserved", prop.ForAll(
		func(prefix, old, suffix, body string) bool {
			content := prefix + startMarker + old + endMarker + suffix
			got, ok := ReplaceSection(content, startMarker, endMarker, body)
			return ok &&
				strings.HasPrefix(got, prefix) &&
				strings.HasSuffix(got, suffix) &&
				got == prefix+Block(startMarker, endMarker, body)+suffix
		},
		text, text, text, text,
	))

	properties.Property("applying twice equals applying once", prop.ForAll(
		func(content, body string) bool {
			once, _ := Apply(content, startMarker, endMarker, body)
			twice, _ := Apply(once, startMarker, endMarker, body)
			return once == twice
		},
		text, text,
	))

	properties.Property("append keeps prior content verbatim and adds one block", prop.ForAll(
		func(content, body string) bool {
			got, outcome := Apply(content, startMarker, endMarker, body)
			return outcome == OutcomeAppended &&
				strings.HasPrefix(got, content) &&
				strings.Count(got, startMarker) == 1 &&
				strings.Count(got, endMarker) == 1
		},
		text, text,
	))

	properties.Property("a later body fully replaces an earlier one", prop.ForAll(
		func(content, first, second string) bool {
			a, _ := Apply(content, startMarker, endMarker, first)
			b, _ := Apply(a, startMarker, endMarker, second)
			direct, _ := Apply(content, startMarker, endMarker, second)
			return b == direct
		},
		text, text, text,
	))

	properties.TestingRun(t)
}
