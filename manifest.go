// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the authoritative working-directory record of container
// content and order. Packing follows the manifest, not the directory
// listing; files it does not reference are ignored.
type Manifest struct {
	// Entries lists resources in container order.
	Entries []ManifestEntry `json:"entries"`
	// Version is the container format version to reproduce.
	Version uint16 `json:"version"`
	// Flags is the opaque container-level flags word to reproduce.
	Flags uint16 `json:"flags"`
}

// ManifestEntry records one extracted resource.
type ManifestEntry struct {
	// Name is the entry key from the directory record.
	Name string `json:"name,omitempty"`
	// File is the payload filename inside the working directory.
	File string `json:"file"`
	// Meta is the opaque directory record tail, base64-encoded.
	Meta string `json:"meta,omitempty"`
	// ID is the unique numeric entry key.
	ID uint32 `json:"id"`
	// Size is the original (uncompressed) payload size in bytes.
	Size uint32 `json:"size"`
	// Flags is the stored per-entry flags word.
	Flags EntryFlags `json:"flags,omitempty"`
}

// writeManifest serializes the manifest into dir.
func writeManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	data = append(data, '\n')
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write manifest %s: %w", ErrIO, path, err)
	}

	return nil
}

// readManifest loads and validates the manifest from dir.
func readManifest(dir string) (Manifest, error) {
	var m Manifest

	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, fmt.Errorf("%w: %s", ErrMissingManifest, path)
		}

		return m, fmt.Errorf("%w: read manifest %s: %w", ErrIO, path, err)
	}

	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: %s: %w", ErrMalformedManifest, path, err)
	}

	if m.Version != Version {
		return m, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}

	seen := make(map[uint32]struct{}, len(m.Entries))
	for i, e := range m.Entries {
		if e.File == "" {
			return m, fmt.Errorf("%w: entry %d (id %d) has no payload file", ErrMalformedManifest, i, e.ID)
		}

		if e.File != filepath.Base(e.File) {
			return m, fmt.Errorf("%w: entry id %d payload file %q is not a plain filename", ErrMalformedManifest, e.ID, e.File)
		}

		if _, dup := seen[e.ID]; dup {
			return m, fmt.Errorf("%w: duplicate entry id %d", ErrMalformedManifest, e.ID)
		}

		seen[e.ID] = struct{}{}
	}

	return m, nil
}

// encodeMeta encodes the opaque record tail for the manifest. All-zero
// tails are omitted to keep manifests of plain containers short.
func encodeMeta(meta [metaSize]byte) string {
	if meta == ([metaSize]byte{}) {
		return ""
	}

	return base64.StdEncoding.EncodeToString(meta[:])
}

// decodeMeta decodes a manifest meta field back into the fixed-width tail.
func decodeMeta(s string) ([metaSize]byte, error) {
	var meta [metaSize]byte
	if s == "" {
		return meta, nil
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return meta, fmt.Errorf("%w: meta field: %w", ErrMalformedManifest, err)
	}

	if len(raw) != metaSize {
		return meta, fmt.Errorf("%w: meta field is %d bytes, want %d", ErrMalformedManifest, len(raw), metaSize)
	}

	copy(meta[:], raw)
	return meta, nil
}
