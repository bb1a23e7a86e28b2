package fetch_test

import (
	"os"
	"path/filepath"
	"testing"

	"boxart/internal/config"
	"boxart/internal/fetch"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExistsStemModeMatchesAnyExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Box - Front.png"))

	cache := fetch.NewExistsCache(config.MatchStem)
	if !cache.Exists(filepath.Join(dir, "Box - Front")) {
		t.Fatal("stem mode should match a previously saved .png")
	}
	if cache.Exists(filepath.Join(dir, "Box - Back")) {
		t.Fatal("unrelated stem must not match")
	}
}

func TestExistsStemModeDoesNotMatchLongerStem(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Box - Front - Reconstructed.jpg"))

	cache := fetch.NewExistsCache(config.MatchStem)
	if cache.Exists(filepath.Join(dir, "Box - Front")) {
		t.Fatal("stem must only match exact stem plus extension, not a prefix")
	}
}

func TestExistsExactModeIgnoresExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Screenshot.jpg"))
	touch(t, filepath.Join(dir, "Banner"))

	cache := fetch.NewExistsCache(config.MatchExact)
	if cache.Exists(filepath.Join(dir, "Screenshot")) {
		t.Fatal("exact mode must not match files saved with an extension")
	}
	if !cache.Exists(filepath.Join(dir, "Banner")) {
		t.Fatal("exact mode should match the literal path")
	}
}

func TestExistsMemoizesFirstProbe(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "Box - Front")

	cache := fetch.NewExistsCache(config.MatchStem)
	if cache.Exists(stem) {
		t.Fatal("empty directory should report absent")
	}

	// A file appearing after the first probe is not observed: the cached
	// miss stands until Record is called.
	touch(t, stem+".jpg")
	if cache.Exists(stem) {
		t.Fatal("cached miss should be returned without re-probing")
	}

	cache.Record(stem)
	if !cache.Exists(stem) {
		t.Fatal("Record must force the entry to true")
	}
}

func TestExistsMissingDirectory(t *testing.T) {
	cache := fetch.NewExistsCache(config.MatchStem)
	if cache.Exists(filepath.Join(t.TempDir(), "absent", "stem")) {
		t.Fatal("missing directory should report absent")
	}
}
