package icx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtract_WritesFilesAndManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := mustStore(t, 5, testEntries())

	var done int
	opts := ExtractOptions{
		OnEntryDone: func(entry ResourceEntry, written int64, outputPath string) {
			done++
			if outputPath == "" || written < 0 {
				t.Errorf("callback got written=%d path=%q", written, outputPath)
			}
		},
	}

	if err := Extract(context.Background(), store, dir, opts); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if done != store.Len() {
		t.Fatalf("OnEntryDone called %d times, want %d", done, store.Len())
	}

	// Payload content is opaque, so extensions come from the payload itself.
	spinner, err := os.ReadFile(filepath.Join(dir, "Spinner_12.bin"))
	if err != nil {
		t.Fatalf("read Spinner_12.bin: %v", err)
	}
	if !bytes.Equal(spinner, bytes.Repeat([]byte{0xAB}, 13)) {
		t.Fatal("Spinner_12.bin content differs")
	}

	if _, err := os.Stat(filepath.Join(dir, "Splash.png")); err != nil {
		t.Fatalf("stat Splash.png: %v", err)
	}

	// Nameless entries fall back to id-derived filenames.
	if _, err := os.Stat(filepath.Join(dir, "icon_0007.bin")); err != nil {
		t.Fatalf("stat icon_0007.bin: %v", err)
	}

	manifest, err := readManifest(dir)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if manifest.Flags != 5 || manifest.Version != Version {
		t.Fatalf("manifest header = %+v", manifest)
	}

	wantIDs := []uint32{1, 2, 7}
	if len(manifest.Entries) != len(wantIDs) {
		t.Fatalf("manifest has %d entries, want %d", len(manifest.Entries), len(wantIDs))
	}
	for i, id := range wantIDs {
		if manifest.Entries[i].ID != id {
			t.Fatalf("manifest order: entry %d has id %d, want %d", i, manifest.Entries[i].ID, id)
		}
	}
}

func TestExtract_NameCollision(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := []ResourceEntry{
		{Name: "Icon", ID: 1, payload: []byte{1}},
		{Name: "Icon", ID: 2, payload: []byte{2}},
	}
	store := mustStore(t, 0, entries)

	if err := Extract(context.Background(), store, dir, ExtractOptions{}); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	manifest, err := readManifest(dir)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}

	if manifest.Entries[0].File == manifest.Entries[1].File {
		t.Fatalf("colliding filenames: %q", manifest.Entries[0].File)
	}
	for _, me := range manifest.Entries {
		if _, err := os.Stat(filepath.Join(dir, me.File)); err != nil {
			t.Fatalf("stat %s: %v", me.File, err)
		}
	}
}

func TestExtract_UnsafeNameFallsBackToID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := []ResourceEntry{
		{Name: "../..", ID: 3, payload: []byte{1, 2, 3}},
	}
	store := mustStore(t, 0, entries)

	if err := Extract(context.Background(), store, dir, ExtractOptions{}); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	manifest, err := readManifest(dir)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if manifest.Entries[0].File != "icon_0003.bin" {
		t.Fatalf("file=%q, want icon_0003.bin", manifest.Entries[0].File)
	}
}

func TestExtract_OverwritesPriorContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := mustStore(t, 0, []ResourceEntry{
		{Name: "Icon", ID: 1, payload: []byte("new")},
	})

	stale := filepath.Join(dir, "Icon.bin")
	if err := os.WriteFile(stale, []byte("stale content that is longer"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Extract(context.Background(), store, dir, ExtractOptions{}); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	got, err := os.ReadFile(stale)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("new")) {
		t.Fatalf("content=%q, want %q", got, "new")
	}
}

func TestExtract_CreateOnlyFailsOnExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := mustStore(t, 0, []ResourceEntry{
		{Name: "Icon", ID: 1, payload: []byte("new")},
	})

	if err := os.WriteFile(filepath.Join(dir, "Icon.bin"), []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := Extract(context.Background(), store, dir, ExtractOptions{FileMode: ExtractFileModeCreateOnly})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}

	// The failed run must not have produced a manifest.
	if _, err := readManifest(dir); !errors.Is(err, ErrMissingManifest) {
		t.Fatalf("expected no manifest after failure, got %v", err)
	}
}

func TestExtract_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := mustStore(t, 0, testEntries())
	err := Extract(ctx, store, t.TempDir(), ExtractOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSanitizeFileBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Spinner_12", "Spinner_12"},
		{"a b/c", "a_b_c"},
		{"..", ""},
		{"___", ""},
		{".hidden", "hidden"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := sanitizeFileBase(tc.in); got != tc.want {
			t.Fatalf("sanitizeFileBase(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
