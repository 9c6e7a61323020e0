package main

import (
	"context"
	"slices"
	"testing"

	"tern/internal/driver"
	"tern/internal/hir"
	"tern/internal/project"
	"tern/internal/testkit"
)

func TestDemoUnitChecksClean(t *testing.T) {
	man := &project.Manifest{}
	man.Package.Name = "demo"

	unit, files := buildDemoUnit(man)
	if err := testkit.CheckUnitInvariants(unit); err != nil {
		t.Fatalf("malformed demo unit: %v", err)
	}
	if files.Len() != 1 {
		t.Fatalf("demo unit must carry one pseudo-source file, got %d", files.Len())
	}

	res, err := driver.Check(context.Background(), unit, driver.Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("demo unit must check clean, got: %v", res.Sema.Bag.Items())
	}

	got := res.Summary.Specializations
	want := []string{
		"Box<bool>",
		"identity<bool>",
		"identity<float>",
		"identity<int>",
		"least<int>",
		"main",
		"wrap<bool>",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("specializations = %v, want %v", got, want)
	}
}

func TestDemoUnitHonorsManifestEntries(t *testing.T) {
	man := &project.Manifest{}
	man.Package.Name = "demo"
	man.Package.Entries = []string{"start", "bench"}

	unit, _ := buildDemoUnit(man)
	var entries []string
	for _, fn := range unit.Funcs {
		if fn.Flags.HasFlag(hir.FuncEntrypoint) {
			entries = append(entries, fn.Name)
		}
	}
	if !slices.Equal(entries, []string{"start", "bench"}) {
		t.Fatalf("entrypoints = %v", entries)
	}
}
