// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extract writes one payload file per store entry into workDir, in store
// order, plus a manifest recording order and metadata for exact
// reconstruction. Compressed entries are written decompressed; the manifest
// keeps their flags so packing restores the stored form. Prior content for
// an entry is overwritten, never merged. Partial output from a failed run
// is not rolled back.
func Extract(ctx context.Context, store *ResourceStore, workDir string, opts ExtractOptions) error {
	if store == nil {
		return fmt.Errorf("%w: nil store", ErrIO)
	}

	opts.applyDefaults()

	if ctx == nil {
		ctx = context.Background()
	}

	if err := os.MkdirAll(workDir, 0o750); err != nil {
		return fmt.Errorf("%w: create working directory %s: %w", ErrIO, workDir, err)
	}

	manifest := Manifest{
		Version: store.Version(),
		Flags:   store.Flags(),
		Entries: make([]ManifestEntry, 0, store.Len()),
	}

	used := make(map[string]struct{}, store.Len())
	for _, entry := range store.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := entry.Data()
		if err != nil {
			return err
		}

		fileName := uniqueFileName(entryFileName(&entry, data), entry.ID, used)
		used[fileName] = struct{}{}

		outPath := filepath.Join(workDir, fileName)
		written, err := writeExtractFile(outPath, data, opts.FileMode)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrIO, entry.ID, err)
		}

		manifest.Entries = append(manifest.Entries, ManifestEntry{
			Name:  entry.Name,
			File:  fileName,
			Meta:  encodeMeta(entry.Meta),
			ID:    entry.ID,
			Size:  uint32(len(data)),
			Flags: entry.Flags,
		})

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(entry, written, outPath)
		}
	}

	return writeManifest(workDir, manifest)
}

// writeExtractFile writes one payload file according to the selected mode.
func writeExtractFile(path string, data []byte, mode ExtractFileMode) (int64, error) {
	var openFlags int
	switch mode {
	case ExtractFileModeTruncate:
		openFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ExtractFileModeCreateOnly:
		openFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	default:
		return 0, fmt.Errorf("unknown extract file mode %q", mode)
	}

	file, err := os.OpenFile(path, openFlags, 0o600)
	if err != nil {
		return 0, err
	}

	n, writeErr := file.Write(data)
	closeErr := file.Close()
	if writeErr != nil {
		return int64(n), writeErr
	}

	return int64(n), closeErr
}

// entryFileName derives the payload filename from the entry key and the
// payload's own format marker.
func entryFileName(entry *ResourceEntry, data []byte) string {
	base := sanitizeFileBase(entry.Name)
	if base == "" {
		base = fmt.Sprintf("icon_%04d", entry.ID)
	}

	return base + sniffExtension(data)
}

// sanitizeFileBase rewrites an entry key to a filesystem-safe flat filename
// base. Anything outside the safe set becomes an underscore; keys that
// sanitize to nothing usable yield an empty base.
func sanitizeFileBase(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._ ")
	if strings.Trim(out, "_") == "" {
		return ""
	}

	return out
}

// uniqueFileName disambiguates sanitized filename collisions by suffixing
// the entry id before the extension.
func uniqueFileName(name string, id uint32, used map[string]struct{}) string {
	if _, taken := used[name]; !taken {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := fmt.Sprintf("%s_%d%s", base, id, ext)
	for n := 2; ; n++ {
		if _, taken := used[candidate]; !taken {
			return candidate
		}

		candidate = fmt.Sprintf("%s_%d_%d%s", base, id, n, ext)
	}
}
