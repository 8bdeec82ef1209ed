package sugar

import (
	"sort"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/computo-run/computo/internal/sugar/parser"
	"github.com/computo-run/computo/internal/sugar/writer"
)

// TestSugarWriterSnapshots pins the exact rendered text the writer produces
// for a representative script per construct, the way the teacher's
// fixture_test.go pins interpreter output: a change in rendering (not just
// in round-trip correctness) shows up as a snapshot diff.
func TestSugarWriterSnapshots(t *testing.T) {
	scripts := map[string]string{
		"arithmetic_precedence": "1 + 2 * 3 - (4 / 2)",
		"let_and_lambda":        "let double = (x) => x * 2 in map($input/items, double)",
		"chained_comparison":    "1 < 2 < 3",
		"object_and_array":      `{name: $input/name, tags: [1, 2, 3]}`,
		"not_and_or":            "not a and b or c",
		"variable_paths":        "$input/a/b + $inputs(1)",
	}

	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src := scripts[name]
		ast, err := parser.Parse(src, "array")
		if err != nil {
			t.Fatalf("%s: parsing %q: %v", name, src, err)
		}
		out, err := writer.Write(ast, "array")
		if err != nil {
			t.Fatalf("%s: writing: %v", name, err)
		}
		snaps.MatchSnapshot(t, name, out)
	}
}
