//go:build property

package sidebar

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/docskin/internal/datauri"
	"github.com/conneroisu/docskin/internal/icons"
)

func TestIconAttrsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(8642)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("known icon style decodes back to its markup", prop.ForAll(
		func(name, markup string) bool {
			table := icons.NewTable(map[string]string{name: markup})
			attrs := IconAttrs(Item{Type: TypeCategory, CustomProps: Props{"icon": name}}, table)

			value, ok := attrs.StyleValue(IconProperty)
			if !ok || !attrs.HasMarker(IconMarker) {
				return false
			}
			uri, found := strings.CutPrefix(value, `url("`)
			if !found {
				return false
			}
			uri, found = strings.CutSuffix(uri, `")`)
			if !found {
				return false
			}
			decoded, err := datauri.Decode(uri)
			return err == nil && decoded == markup
		},
		gen.Identifier(),
		gen.AnyString(),
	))

	properties.Property("names missing from the table fall back", prop.ForAll(
		func(name string) bool {
			table := icons.NewTable(map[string]string{"box": "<svg/>"})
			if name == "box" {
				return true
			}
			return IconAttrs(Item{CustomProps: Props{"icon": name}}, table).IsZero()
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
