package driver

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"errlevel/internal/project"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key := cacheKey(sha256.Sum256([]byte("src")), project.Digest{})
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   "fetch.errs",
		Unions: 2,
		Output: []byte("package fetch\n"),
	}
	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got DiskPayload
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Schema != payload.Schema || got.Path != payload.Path || got.Unions != payload.Unions {
		t.Errorf("payload = %+v, want %+v", got, *payload)
	}
	if !bytes.Equal(got.Output, payload.Output) {
		t.Errorf("output = %q, want %q", got.Output, payload.Output)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	ok, err := cache.Get(cacheKey(sha256.Sum256([]byte("absent")), project.Digest{}), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("hit on empty cache")
	}
}

func TestDiskCacheNilSafe(t *testing.T) {
	var cache *DiskCache
	key := cacheKey(sha256.Sum256(nil), project.Digest{})
	if err := cache.Put(key, &DiskPayload{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	var out DiskPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Errorf("nil Get: ok=%v err=%v", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Errorf("nil DropAll: %v", err)
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	srcA := sha256.Sum256([]byte("a"))
	srcB := sha256.Sum256([]byte("b"))
	var m1, m2 project.Digest
	m2[0] = 1

	base := cacheKey(srcA, m1)
	if cacheKey(srcB, m1) == base {
		t.Error("key ignores source hash")
	}
	if cacheKey(srcA, m2) == base {
		t.Error("key ignores manifest digest")
	}
	if cacheKey(srcA, m1) != base {
		t.Error("key is not deterministic")
	}
}

func TestGenerateUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", cleanSource)
	m := testManifest(t, dir)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Manifest: m, Cache: cache}
	_, first, err := GenerateFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first run must miss the cache")
	}

	_, second, err := GenerateFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run must hit the cache")
	}
	if !bytes.Equal(first.Output, second.Output) {
		t.Error("cached output differs")
	}

	// правка исходника инвалидирует запись
	if err := os.WriteFile(path, []byte("union A {\n\tX @report(info)\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, third, err := GenerateFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("edited source must miss the cache")
	}
}

func TestBrokenResultNotCached(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", brokenSource)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Cache: cache}
	if _, _, err := GenerateFile(path, opts); err != nil {
		t.Fatal(err)
	}
	_, second, err := GenerateFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Cached {
		t.Error("result with diagnostics must not be cached")
	}
}
