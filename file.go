// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"encoding/binary"
	"fmt"
	"os"
)

// DecodeFile reads a container file fully into memory and decodes it.
// Icon sets are small; there is no streaming contract.
func DecodeFile(path string) (*ResourceStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read container %s: %w", ErrIO, path, err)
	}

	return Decode(data)
}

// ListEntries reads a container file and returns directory metadata without
// copying payloads. Useful for listing workflows that never touch image
// bytes.
func ListEntries(path string) ([]DirectoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read container %s: %w", ErrIO, path, err)
	}

	cur := NewReadCursor(data, binary.LittleEndian)
	header, err := parseHeader(cur, len(data))
	if err != nil {
		return nil, err
	}

	if err := cur.Seek(int(header.TableOffset)); err != nil {
		return nil, fmt.Errorf("seek directory: %w", err)
	}

	return parseEntries(cur, header.EntryCount, len(data))
}

// EncodeFile serializes the store and writes the container file from memory.
func (s *ResourceStore) EncodeFile(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write container %s: %w", ErrIO, path, err)
	}

	return nil
}
