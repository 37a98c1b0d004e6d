// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Pack rebuilds a store from a working directory produced by Extract. The
// manifest drives the result: entries are loaded in manifest order, files
// not referenced by the manifest are ignored. Entries whose manifest flags
// carry the compressed bit are recompressed; additional candidates may be
// selected by PackOptions.Compress rules matched against entry names.
// Compressed form is kept only when strictly smaller than the raw payload.
func Pack(ctx context.Context, workDir string, opts PackOptions) (*ResourceStore, error) {
	opts.applyDefaults()

	if ctx == nil {
		ctx = context.Background()
	}

	manifest, err := readManifest(workDir)
	if err != nil {
		return nil, err
	}

	matcher, err := newCompressMatcher(opts.Compress, opts.CompressMatcherOptions)
	if err != nil {
		return nil, fmt.Errorf("compile compress rules: %w", err)
	}

	entries := make([]ResourceEntry, 0, len(manifest.Entries))
	for _, me := range manifest.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := loadManifestEntry(workDir, me, opts, matcher)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(entry)
		}
	}

	return newStore(manifest.Version, manifest.Flags, entries)
}

// loadManifestEntry reads one payload file and stages it as a store entry,
// applying the compression policy.
func loadManifestEntry(workDir string, me ManifestEntry, opts PackOptions, matcher *compressMatcher) (ResourceEntry, error) {
	var entry ResourceEntry

	meta, err := decodeMeta(me.Meta)
	if err != nil {
		return entry, fmt.Errorf("entry %d: %w", me.ID, err)
	}

	path := filepath.Join(workDir, me.File)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entry, fmt.Errorf("%w: entry %d: %s", ErrMissingPayloadFile, me.ID, path)
		}

		return entry, fmt.Errorf("%w: entry %d: read %s: %w", ErrIO, me.ID, path, err)
	}

	if int64(len(raw)) > opts.MaxEntrySize || uint64(len(raw)) > uint64(math.MaxUint32) {
		return entry, fmt.Errorf("%w: entry %d payload of %d bytes", ErrOversize, me.ID, len(raw))
	}

	entry = ResourceEntry{
		Name:    me.Name,
		ID:      me.ID,
		Flags:   me.Flags &^ FlagCompressed,
		Meta:    meta,
		payload: raw,
	}

	wantCompress := me.Flags.Compressed() ||
		shouldCompress(opts, matcher, me.Name, uint32(len(raw)))
	if !wantCompress {
		return entry, nil
	}

	compressed, err := compressLZSS(raw)
	if err != nil {
		return entry, fmt.Errorf("compress entry %d: %w", me.ID, err)
	}

	if len(compressed) >= len(raw) {
		return entry, nil
	}

	entry.payload = compressed
	entry.Flags |= FlagCompressed
	entry.OriginalSize = uint32(len(raw))
	return entry, nil
}
