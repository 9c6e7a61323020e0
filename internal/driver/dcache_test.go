package driver

import (
	"os"
	"slices"
	"testing"
	"time"
)

func testSummary() *Summary {
	sum := &Summary{
		UnitName:        "app",
		ErrorCount:      0,
		FuncCount:       3,
		TypeCount:       1,
		Specializations: []string{"Box<int>", "identity<int>", "main"},
		CheckedAt:       time.Unix(1700000000, 0).UTC(),
	}
	sum.Digest[0] = 0xab
	sum.Digest[31] = 0xcd
	return sum
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	want := testSummary()

	if _, ok, err := cache.Get(want.Digest); err != nil || ok {
		t.Fatalf("Get before Put = (%v, %v), want miss", ok, err)
	}
	if err := cache.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get(want.Digest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if got.UnitName != want.UnitName || got.Digest != want.Digest ||
		got.FuncCount != want.FuncCount || got.TypeCount != want.TypeCount {
		t.Fatalf("Get = %+v, want %+v", got, want)
	}
	if !slices.Equal(got.Specializations, want.Specializations) {
		t.Fatalf("Specializations = %v, want %v", got.Specializations, want.Specializations)
	}
	if !got.CheckedAt.Equal(want.CheckedAt) {
		t.Fatalf("CheckedAt = %v, want %v", got.CheckedAt, want.CheckedAt)
	}
}

func TestDiskCachePutReplacesEntry(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	sum := testSummary()
	if err := cache.Put(sum); err != nil {
		t.Fatalf("Put: %v", err)
	}
	sum.ErrorCount = 2
	if err := cache.Put(sum); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, ok, err := cache.Get(sum.Digest)
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v), want hit", ok, err)
	}
	if got.ErrorCount != 2 {
		t.Fatalf("ErrorCount = %d, want 2", got.ErrorCount)
	}
}

func TestDiskCacheTornEntryIsAnError(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	sum := testSummary()
	if err := os.WriteFile(cache.pathFor(sum.Digest), []byte{0xc1}, 0o644); err != nil {
		t.Fatalf("write torn entry: %v", err)
	}
	if _, _, err := cache.Get(sum.Digest); err == nil {
		t.Fatal("undecodable entry must surface as an error")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	sum := testSummary()
	if err := cache.Put(sum); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, err := cache.Get(sum.Digest); err != nil || ok {
		t.Fatalf("Get after DropAll = (%v, %v), want miss", ok, err)
	}
	if _, err := os.Stat(cache.Dir()); err != nil {
		t.Fatalf("cache dir must survive DropAll: %v", err)
	}
	if _, err := os.Stat(cache.Dir() + ".drop"); !os.IsNotExist(err) {
		t.Fatalf("doomed dir must be removed, stat err = %v", err)
	}
}
