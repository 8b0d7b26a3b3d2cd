package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loom-hq/loom/pkg/config"
	terrors "loom-hq/loom/pkg/template/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", name, err)
	}
	return path
}

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatalf("Chtimes(%s) failed: %v", path, err)
	}
}

func newTestCache(cfg config.CacheConfig) *Cache {
	return New(cfg, Options{})
}

func TestCache_MissThenHit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yml", "value: 1\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	e1, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("GetTemplate() failed: %v", err)
	}
	if e1.Parsed == nil {
		t.Fatal("Parsed = nil, want tree")
	}

	e2, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("second GetTemplate() failed: %v", err)
	}
	if e2 != e1 {
		t.Error("second lookup returned a different entry, want cache hit")
	}

	stats := c.Stats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("hits = %d, misses = %d, want 1 and 1", stats.Hits, stats.Misses)
	}
	if stats.HitRate() != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", stats.HitRate())
	}
	if e2.AccessCount != 2 {
		t.Errorf("AccessCount = %d, want 2", e2.AccessCount)
	}
}

func TestCache_StaleMtimeReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yml", "value: 1\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	e1, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("GetTemplate() failed: %v", err)
	}

	writeFile(t, dir, "a.yml", "value: 2\n")
	touch(t, path, e1.LastModified.Add(2*time.Second))

	e2, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("GetTemplate() after change failed: %v", err)
	}
	if e2.Content != "value: 2\n" {
		t.Errorf("Content = %q, want reloaded content", e2.Content)
	}

	stats := c.Stats()
	if stats.Misses != 2 {
		t.Errorf("Misses = %d, want 2 (stale reload counts as a miss)", stats.Misses)
	}
	if stats.Hits != 0 {
		t.Errorf("Hits = %d, want 0", stats.Hits)
	}
}

func TestCache_UnchangedContentSkipsReparse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yml", "value: 1\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	e1, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("GetTemplate() failed: %v", err)
	}

	// mtime changes, content does not.
	touch(t, path, e1.LastModified.Add(2*time.Second))

	e2, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("GetTemplate() after touch failed: %v", err)
	}
	if e2 == e1 {
		t.Fatal("entry not replaced, want fresh entry")
	}
	if e2.Parsed != e1.Parsed {
		t.Error("Parsed tree was rebuilt, want reuse for identical content")
	}
	if c.Stats().Misses != 2 {
		t.Errorf("Misses = %d, want 2", c.Stats().Misses)
	}
}

func TestCache_NegativeParseEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yml", "key: [unclosed\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	e, err := c.GetTemplate(ctx, path)
	if err != nil {
		t.Fatalf("GetTemplate() failed: %v (parse failures cache negatively)", err)
	}
	if e.Parsed != nil {
		t.Error("Parsed != nil, want nil for unparseable file")
	}
	if !terrors.IsKind(e.ParseErr, terrors.KindParse) {
		t.Errorf("ParseErr = %v, want parse kind", e.ParseErr)
	}

	// The negative entry avoids repeated misses.
	if _, err := c.GetTemplate(ctx, path); err != nil {
		t.Fatalf("second GetTemplate() failed: %v", err)
	}
	if c.Stats().Hits != 1 {
		t.Errorf("Hits = %d, want 1 (negative entry served)", c.Stats().Hits)
	}
}

func TestCache_FileNotFound(t *testing.T) {
	c := newTestCache(config.CacheConfig{})

	_, err := c.GetTemplate(context.Background(), filepath.Join(t.TempDir(), "missing.yml"))
	if !terrors.IsKind(err, terrors.KindFileNotFound) {
		t.Errorf("GetTemplate(missing) error = %v, want file_not_found", err)
	}
	if c.Stats().TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0", c.Stats().TotalEntries)
	}
}

func TestCache_InvalidateSingle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "solo.yml", "value: 1\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	if _, err := c.GetTemplate(ctx, path); err != nil {
		t.Fatalf("GetTemplate() failed: %v", err)
	}

	removed := c.Invalidate(path)
	if removed != 1 {
		t.Errorf("Invalidate() = %d, want 1", removed)
	}

	stats := c.Stats()
	if stats.Invalidations != 1 {
		t.Errorf("Invalidations = %d, want 1", stats.Invalidations)
	}
	if stats.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0", stats.TotalEntries)
	}
}

func TestCache_InvalidateUncachedIsNoop(t *testing.T) {
	c := newTestCache(config.CacheConfig{})
	if removed := c.Invalidate("/never/loaded.yml"); removed != 0 {
		t.Errorf("Invalidate(uncached) = %d, want 0", removed)
	}
}

func TestCache_CascadingInvalidation(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yml", "- $include:\n    template: \"b.yml\"\n")
	b := writeFile(t, dir, "b.yml", "- $include:\n    template: \"c.yml\"\n")
	cFile := writeFile(t, dir, "c.yml", "- Text:\n    value: leaf\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	for _, p := range []string{a, b, cFile} {
		if _, err := c.GetTemplate(ctx, p); err != nil {
			t.Fatalf("GetTemplate(%s) failed: %v", p, err)
		}
	}
	if c.Stats().TotalEntries != 3 {
		t.Fatalf("TotalEntries = %d, want 3", c.Stats().TotalEntries)
	}

	// Invalidating the leaf removes the whole ancestor chain.
	removed := c.Invalidate(cFile)
	if removed != 3 {
		t.Errorf("Invalidate(c) = %d, want 3", removed)
	}
	if got := c.CachedTemplates(); len(got) != 0 {
		t.Errorf("CachedTemplates() = %v, want empty", got)
	}

	// A subsequent load of the root is a miss.
	misses := c.Stats().Misses
	if _, err := c.GetTemplate(ctx, a); err != nil {
		t.Fatalf("GetTemplate(a) after cascade failed: %v", err)
	}
	if c.Stats().Misses != misses+1 {
		t.Error("GetTemplate(a) after cascade was not a miss")
	}
}

func TestCache_InvalidationCycleSafe(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yml", "- $include:\n    template: \"b.yml\"\n")
	b := writeFile(t, dir, "b.yml", "- $include:\n    template: \"a.yml\"\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	if _, err := c.GetTemplate(ctx, a); err != nil {
		t.Fatalf("GetTemplate(a) failed: %v", err)
	}
	if _, err := c.GetTemplate(ctx, b); err != nil {
		t.Fatalf("GetTemplate(b) failed: %v", err)
	}

	// The static graph has a cycle; invalidation must still terminate.
	removed := c.Invalidate(a)
	if removed != 2 {
		t.Errorf("Invalidate(a) = %d, want 2", removed)
	}
}

func TestCache_LRUEviction(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(config.CacheConfig{MaxEntries: 2})
	ctx := context.Background()

	p1 := writeFile(t, dir, "one.yml", "v: 1\n")
	p2 := writeFile(t, dir, "two.yml", "v: 2\n")
	p3 := writeFile(t, dir, "three.yml", "v: 3\n")

	if _, err := c.GetTemplate(ctx, p1); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.GetTemplate(ctx, p2); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	// Touch p1 so p2 is the least recently used.
	if _, err := c.GetTemplate(ctx, p1); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.GetTemplate(ctx, p3); err != nil {
		t.Fatal(err)
	}

	cached := c.CachedTemplates()
	if len(cached) != 2 {
		t.Fatalf("TotalEntries = %d, want 2 after eviction", len(cached))
	}
	for _, p := range cached {
		if p == mustAbs(t, p2) {
			t.Error("least recently used entry survived eviction")
		}
	}
}

func TestCache_CleanupAge(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "old.yml", "v: 1\n")
	c := newTestCache(config.CacheConfig{MaxAge: time.Millisecond})
	ctx := context.Background()

	if _, err := c.GetTemplate(ctx, path); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)

	if removed := c.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() = %d, want 1", removed)
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCache_MemoryPressure(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(config.CacheConfig{
		MemoryPressureBytes:  32,
		MemoryPressureRetain: 1,
	})
	ctx := context.Background()

	paths := []string{
		writeFile(t, dir, "one.yml", "value: aaaaaaaaaaaaaaaaaaaa\n"),
		writeFile(t, dir, "two.yml", "value: bbbbbbbbbbbbbbbbbbbb\n"),
		writeFile(t, dir, "three.yml", "value: cccccccccccccccccccc\n"),
	}
	for _, p := range paths {
		if _, err := c.GetTemplate(ctx, p); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	if got := c.Stats().TotalEntries; got > 1 {
		t.Errorf("TotalEntries = %d, want at most the retained set of 1", got)
	}
}

func TestCache_Clear(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yml", "v: 1\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	if _, err := c.GetTemplate(ctx, path); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetTemplate(ctx, path); err != nil {
		t.Fatal(err)
	}

	c.Clear()

	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.TotalEntries != 0 || stats.TotalSize != 0 {
		t.Errorf("Stats() after Clear = %+v, want zeroes", stats)
	}
}

func TestCache_TemplateInfo(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yml", "- $include:\n    template: \"b.yml\"\n")
	b := writeFile(t, dir, "b.yml", "- Text:\n    value: leaf\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	if _, err := c.GetTemplate(ctx, a); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetTemplate(ctx, b); err != nil {
		t.Fatal(err)
	}

	info, ok := c.TemplateInfo(b)
	if !ok {
		t.Fatal("TemplateInfo(b) not found")
	}
	if !info.Parsed {
		t.Error("Parsed = false, want true")
	}
	if len(info.Dependents) != 1 || info.Dependents[0] != mustAbs(t, a) {
		t.Errorf("Dependents = %v, want [a]", info.Dependents)
	}

	info, ok = c.TemplateInfo(a)
	if !ok {
		t.Fatal("TemplateInfo(a) not found")
	}
	if len(info.Dependencies) != 1 || info.Dependencies[0] != mustAbs(t, b) {
		t.Errorf("Dependencies = %v, want [b]", info.Dependencies)
	}

	if _, ok := c.TemplateInfo(filepath.Join(dir, "missing.yml")); ok {
		t.Error("TemplateInfo(missing) = true, want false")
	}
}

func TestCache_Exists(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yml", "v: 1\n")
	c := newTestCache(config.CacheConfig{})
	ctx := context.Background()

	if !c.Exists(ctx, path) {
		t.Error("Exists(present) = false, want true")
	}
	if c.Exists(ctx, filepath.Join(dir, "missing.yml")) {
		t.Error("Exists(missing) = true, want false")
	}
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("Abs(%s) failed: %v", path, err)
	}
	return abs
}
