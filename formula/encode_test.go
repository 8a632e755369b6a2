package formula

import (
	"reflect"
	"testing"
)

// Parsing encoder output must reproduce the original formula.
func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "workflow",
			data: `
formula = "release"
description = "Release {{version}}"
type = "workflow"
version = 2

[vars.version]
description = "Release tag"
required = true
pattern = "v[0-9]+"

[vars.channel]
default = "stable"
enum = ["stable", "beta"]

[[steps]]
id = "test"
title = "Test"
duration = 15

[[steps]]
id = "publish"
title = "Publish {{version}}"
needs = ["test"]
requires = ["credentials"]
`,
		},
		{
			name: "convoy",
			data: `
formula = "review"
description = "Review a change"
type = "convoy"

[[legs]]
id = "style"
title = "Style"
focus = "Readability"
order = 1

[[legs]]
id = "tests"
title = "Tests"
agent = "strict"
order = 2

[[legs]]
id = "notes"
title = "Notes"
`,
		},
		{
			name: "expansion with synthesis",
			data: `
formula = "dive"
description = "Expand a topic"
type = "expansion"
version = 0

[synthesis]
strategy = "merge"
format = "markdown"
description = "Merge the branches"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := mustParse(t, tt.data)

			encoded, err := original.EncodeTOML()
			if err != nil {
				t.Fatalf("EncodeTOML failed: %v", err)
			}
			reparsed, err := Parse(encoded)
			if err != nil {
				t.Fatalf("Parse of encoded output failed: %v\n%s", err, encoded)
			}

			if !reflect.DeepEqual(reparsed, original) {
				t.Errorf("round trip changed the formula:\noriginal: %+v\nreparsed: %+v\nencoded:\n%s",
					original, reparsed, encoded)
			}
		})
	}
}

// An explicit version = 0 survives the trip; only an absent version
// defaults to 1.
func TestEncode_VersionZeroPreserved(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "d"
type = "workflow"
version = 0
`)
	encoded, err := f.EncodeTOML()
	if err != nil {
		t.Fatalf("EncodeTOML failed: %v", err)
	}
	reparsed, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if reparsed.Version != 0 {
		t.Errorf("Version = %d, want 0", reparsed.Version)
	}
}
