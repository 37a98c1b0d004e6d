// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// DirectoryEntry is one fixed-size descriptor from the container directory
// table. PayloadOffset and PayloadSize locate the stored payload;
// OriginalSize is the uncompressed length for compressed entries and zero
// otherwise; Meta is carried opaquely.
type DirectoryEntry struct {
	// Name is the entry key, up to 48 ASCII bytes without NUL.
	Name string `json:"name"`
	// ID is the unique numeric entry key.
	ID uint32 `json:"id"`
	// PayloadOffset is the absolute byte offset of the stored payload.
	PayloadOffset uint32 `json:"payload_offset"`
	// PayloadSize is the stored payload length in bytes.
	PayloadSize uint32 `json:"payload_size"`
	// Flags is the per-entry flags word; bit 0 marks LZSS compression.
	Flags EntryFlags `json:"flags"`
	// OriginalSize is the uncompressed payload length for compressed entries.
	OriginalSize uint32 `json:"original_size,omitempty"`
	// Meta is the opaque 12-byte record tail, round-tripped verbatim.
	Meta [metaSize]byte `json:"-"`
}

// parseEntries reads count fixed-size directory records and validates
// payload bounds, id uniqueness, and payload region disjointness.
func parseEntries(cur *ByteCursor, count uint32, containerLen int) ([]DirectoryEntry, error) {
	entries := make([]DirectoryEntry, 0, count)
	seen := make(map[uint32]struct{}, count)

	for i := uint32(0); i < count; i++ {
		e, err := parseEntryRecord(cur)
		if err != nil {
			return nil, fmt.Errorf("directory record %d: %w", i, err)
		}

		end := int64(e.PayloadOffset) + int64(e.PayloadSize)
		if end > int64(containerLen) {
			return nil, fmt.Errorf("%w: entry %d payload [%d..%d) outside container of %d bytes",
				ErrMalformedDirectory, e.ID, e.PayloadOffset, end, containerLen)
		}

		if e.Flags.Compressed() && e.OriginalSize == 0 {
			return nil, fmt.Errorf("%w: entry %d compressed with zero original size", ErrMalformedDirectory, e.ID)
		}

		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate entry id %d", ErrMalformedDirectory, e.ID)
		}

		seen[e.ID] = struct{}{}
		entries = append(entries, e)
	}

	if err := checkPayloadOverlap(entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// parseEntryRecord reads one 80-byte directory record.
func parseEntryRecord(cur *ByteCursor) (DirectoryEntry, error) {
	var e DirectoryEntry

	nameRaw, err := cur.ReadBytes(nameSize)
	if err != nil {
		return e, fmt.Errorf("read name: %w", err)
	}

	name, err := decodePaddedName(nameRaw)
	if err != nil {
		return e, err
	}
	e.Name = name

	if e.ID, err = cur.ReadUint32(); err != nil {
		return e, fmt.Errorf("read id: %w", err)
	}

	if e.PayloadOffset, err = cur.ReadUint32(); err != nil {
		return e, fmt.Errorf("read payload offset: %w", err)
	}

	if e.PayloadSize, err = cur.ReadUint32(); err != nil {
		return e, fmt.Errorf("read payload size: %w", err)
	}

	flags, err := cur.ReadUint32()
	if err != nil {
		return e, fmt.Errorf("read flags: %w", err)
	}
	e.Flags = EntryFlags(flags)

	if e.OriginalSize, err = cur.ReadUint32(); err != nil {
		return e, fmt.Errorf("read original size: %w", err)
	}

	meta, err := cur.ReadBytes(metaSize)
	if err != nil {
		return e, fmt.Errorf("read meta: %w", err)
	}
	copy(e.Meta[:], meta)

	return e, nil
}

// decodePaddedName decodes a NUL-padded fixed-width name field.
// Non-zero bytes after the first NUL break serialize/parse identity and are
// rejected as corruption.
func decodePaddedName(raw []byte) (string, error) {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}

	for _, b := range raw[end:] {
		if b != 0 {
			return "", fmt.Errorf("%w: name field has bytes after NUL padding", ErrMalformedDirectory)
		}
	}

	return string(raw[:end]), nil
}

// encodePaddedName encodes name into a NUL-padded fixed-width field.
func encodePaddedName(name string) ([]byte, error) {
	if len(name) > nameSize {
		return nil, fmt.Errorf("%w: name %q exceeds %d bytes", ErrMalformedDirectory, name, nameSize)
	}

	if strings.ContainsRune(name, 0) {
		return nil, fmt.Errorf("%w: name %q contains NUL", ErrMalformedDirectory, name)
	}

	out := make([]byte, nameSize)
	copy(out, name)
	return out, nil
}

// checkPayloadOverlap rejects directories whose non-empty payload regions
// overlap. The format does not support shared resources.
func checkPayloadOverlap(entries []DirectoryEntry) error {
	regions := make([]DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.PayloadSize > 0 {
			regions = append(regions, e)
		}
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].PayloadOffset < regions[j].PayloadOffset
	})

	for i := 1; i < len(regions); i++ {
		prev := regions[i-1]
		prevEnd := int64(prev.PayloadOffset) + int64(prev.PayloadSize)
		if int64(regions[i].PayloadOffset) < prevEnd {
			return fmt.Errorf("%w: entries %d and %d declare overlapping payload regions",
				ErrMalformedDirectory, prev.ID, regions[i].ID)
		}
	}

	return nil
}

// serializeEntries emits directory records in input order. Offsets are
// expected to be already recomputed by the store layout pass; every other
// field is written verbatim.
func serializeEntries(entries []DirectoryEntry) ([]byte, error) {
	cur := NewRegionCursor(len(entries)*entryRecordSize, binary.LittleEndian)

	for i, e := range entries {
		name, err := encodePaddedName(e.Name)
		if err != nil {
			return nil, fmt.Errorf("directory record %d: %w", i, err)
		}

		if err := cur.WriteBytes(name); err != nil {
			return nil, fmt.Errorf("directory record %d: write name: %w", i, err)
		}

		fields := []uint32{e.ID, e.PayloadOffset, e.PayloadSize, uint32(e.Flags), e.OriginalSize}
		for _, v := range fields {
			if err := cur.WriteUint32(v); err != nil {
				return nil, fmt.Errorf("directory record %d: %w", i, err)
			}
		}

		if err := cur.WriteBytes(e.Meta[:]); err != nil {
			return nil, fmt.Errorf("directory record %d: write meta: %w", i, err)
		}
	}

	return cur.Bytes(), nil
}
