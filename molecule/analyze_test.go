package molecule

import (
	"reflect"
	"testing"
)

const releaseFormula = `
formula = "release"
description = "d"
type = "workflow"

[[steps]]
id = "test"
title = "Test"

[[steps]]
id = "build"
title = "Build"
needs = ["test"]

[[steps]]
id = "changelog"
title = "Changelog"
needs = ["test"]

[[steps]]
id = "publish"
title = "Publish"
needs = ["build", "changelog"]
`

func TestTiers(t *testing.T) {
	m := compile(t, releaseFormula, nil)

	want := [][]string{
		{"test"},
		{"build", "changelog"},
		{"publish"},
	}
	if got := m.Tiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tiers = %v, want %v", got, want)
	}
}

func TestTiers_AllParallel(t *testing.T) {
	m := compile(t, `
formula = "f"
description = "d"
type = "convoy"

[[legs]]
id = "b"
title = "B"

[[legs]]
id = "a"
title = "A"

[[legs]]
id = "c"
title = "C"
`, nil)

	want := [][]string{{"a", "b", "c"}}
	if got := m.Tiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tiers = %v, want %v", got, want)
	}
}

func TestTiers_SynthesisBead(t *testing.T) {
	m := compile(t, `
formula = "f"
description = "d"
type = "aspect"

[synthesis]
strategy = "vote"
`, nil)

	want := [][]string{{"synthesis"}}
	if got := m.Tiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tiers = %v, want %v", got, want)
	}
}

func TestTiers_Empty(t *testing.T) {
	m := compile(t, `
formula = "f"
description = "d"
type = "workflow"
`, nil)

	if got := m.Tiers(); len(got) != 0 {
		t.Errorf("Tiers = %v, want none", got)
	}
}

func TestCriticalPath(t *testing.T) {
	m := compile(t, releaseFormula, nil)

	// Both paths through the diamond have length three; the tie goes to
	// build < changelog.
	want := []string{"test", "build", "publish"}
	if got := m.CriticalPath(); !reflect.DeepEqual(got, want) {
		t.Errorf("CriticalPath = %v, want %v", got, want)
	}
}

func TestCriticalPath_DeepChain(t *testing.T) {
	m := compile(t, `
formula = "f"
description = "d"
type = "workflow"

[[steps]]
id = "a"
title = "A"

[[steps]]
id = "b"
title = "B"
needs = ["a"]

[[steps]]
id = "c"
title = "C"
needs = ["b"]

[[steps]]
id = "d"
title = "D"
needs = ["c"]

[[steps]]
id = "side"
title = "Side"
needs = ["a"]
`, nil)

	want := []string{"a", "b", "c", "d"}
	if got := m.CriticalPath(); !reflect.DeepEqual(got, want) {
		t.Errorf("CriticalPath = %v, want %v", got, want)
	}
}

func TestCriticalPath_Empty(t *testing.T) {
	m := compile(t, `
formula = "f"
description = "d"
type = "workflow"
`, nil)

	if got := m.CriticalPath(); len(got) != 0 {
		t.Errorf("CriticalPath = %v, want none", got)
	}
}
