// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ContainerHeader is the fixed 16-byte container preamble.
type ContainerHeader struct {
	// Version is the container format version.
	Version uint16 `json:"version"`
	// Flags is the opaque container-level flags word, round-tripped verbatim.
	Flags uint16 `json:"flags"`
	// EntryCount is the number of directory records.
	EntryCount uint32 `json:"entry_count"`
	// TableOffset is the absolute byte offset of the directory table.
	TableOffset uint32 `json:"table_offset"`
}

// parseHeader reads and validates the container preamble against the total
// container length.
func parseHeader(cur *ByteCursor, containerLen int) (ContainerHeader, error) {
	var h ContainerHeader

	magic, err := cur.ReadBytes(len(Magic))
	if err != nil {
		return h, fmt.Errorf("read magic: %w", err)
	}

	if !bytes.Equal(magic, []byte(Magic)) {
		return h, fmt.Errorf("%w: got % x", ErrBadMagic, magic)
	}

	if h.Version, err = cur.ReadUint16(); err != nil {
		return h, fmt.Errorf("read version: %w", err)
	}

	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	if h.Flags, err = cur.ReadUint16(); err != nil {
		return h, fmt.Errorf("read flags: %w", err)
	}

	if h.EntryCount, err = cur.ReadUint32(); err != nil {
		return h, fmt.Errorf("read entry count: %w", err)
	}

	if h.TableOffset, err = cur.ReadUint32(); err != nil {
		return h, fmt.Errorf("read table offset: %w", err)
	}

	if h.EntryCount > maxEntryCount {
		return h, fmt.Errorf("%w: entry count %d exceeds ceiling %d", ErrMalformedHeader, h.EntryCount, maxEntryCount)
	}

	if h.TableOffset < headerSize {
		return h, fmt.Errorf("%w: table offset %d inside header", ErrMalformedHeader, h.TableOffset)
	}

	tableEnd := int64(h.TableOffset) + int64(h.EntryCount)*entryRecordSize
	if tableEnd > int64(containerLen) {
		return h, fmt.Errorf("%w: directory [%d..%d) outside container of %d bytes",
			ErrMalformedHeader, h.TableOffset, tableEnd, containerLen)
	}

	return h, nil
}

// serializeHeader writes the preamble in the same fixed order, width, and
// byte order parseHeader expects.
func serializeHeader(h ContainerHeader) ([]byte, error) {
	cur := NewRegionCursor(headerSize, binary.LittleEndian)

	if err := cur.WriteBytes([]byte(Magic)); err != nil {
		return nil, fmt.Errorf("write magic: %w", err)
	}

	if err := cur.WriteUint16(h.Version); err != nil {
		return nil, fmt.Errorf("write version: %w", err)
	}

	if err := cur.WriteUint16(h.Flags); err != nil {
		return nil, fmt.Errorf("write flags: %w", err)
	}

	if err := cur.WriteUint32(h.EntryCount); err != nil {
		return nil, fmt.Errorf("write entry count: %w", err)
	}

	if err := cur.WriteUint32(h.TableOffset); err != nil {
		return nil, fmt.Errorf("write table offset: %w", err)
	}

	return cur.Bytes(), nil
}
