// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"encoding/binary"
	"fmt"
)

// ResourceEntry is one icon resource held in memory: the directory metadata
// plus the stored payload bytes. Payload bytes are owned by the store and
// are never mutated in place, only replaced wholesale.
type ResourceEntry struct {
	// Name is the entry key from the directory record.
	Name string `json:"name"`
	// ID is the unique numeric entry key.
	ID uint32 `json:"id"`
	// Flags is the stored per-entry flags word.
	Flags EntryFlags `json:"flags"`
	// OriginalSize is the uncompressed payload length for compressed entries.
	OriginalSize uint32 `json:"original_size,omitempty"`
	// Meta is the opaque directory record tail, round-tripped verbatim.
	Meta [metaSize]byte `json:"-"`
	// payload is the stored (possibly compressed) payload, owned by the store.
	payload []byte
}

// StoredSize returns the stored payload length in bytes.
func (e *ResourceEntry) StoredSize() uint32 {
	return uint32(len(e.payload))
}

// Payload returns a copy of the stored payload bytes, compressed form
// included.
func (e *ResourceEntry) Payload() []byte {
	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out
}

// Data returns a copy of the usable payload: the stored bytes for raw
// entries, the LZSS-decompressed bytes for compressed entries.
func (e *ResourceEntry) Data() ([]byte, error) {
	if !e.Flags.Compressed() {
		return e.Payload(), nil
	}

	raw, err := decompressLZSS(e.payload, e.OriginalSize)
	if err != nil {
		return nil, fmt.Errorf("decompress entry %d: %w", e.ID, err)
	}

	return raw, nil
}

// ResourceStore is the in-memory container model: an ordered entry sequence
// plus the header metadata needed to reproduce the preamble. Entry order is
// significant and determines on-disk layout.
type ResourceStore struct {
	// byID indexes entries by numeric id.
	byID map[uint32]int
	// entries holds resources in container order.
	entries []ResourceEntry
	// version is the container format version from the header.
	version uint16
	// flags is the opaque container-level flags word.
	flags uint16
}

// newStore builds a store from ordered entries and validates the duplicate
// id and entry count invariants.
func newStore(version, flags uint16, entries []ResourceEntry) (*ResourceStore, error) {
	if len(entries) > maxEntryCount {
		return nil, fmt.Errorf("%w: %d entries exceed ceiling %d", ErrMalformedHeader, len(entries), maxEntryCount)
	}

	byID := make(map[uint32]int, len(entries))
	for i := range entries {
		if _, dup := byID[entries[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate entry id %d", ErrMalformedDirectory, entries[i].ID)
		}

		byID[entries[i].ID] = i
	}

	return &ResourceStore{
		byID:    byID,
		entries: entries,
		version: version,
		flags:   flags,
	}, nil
}

// Decode parses container bytes into a fresh store. It fails with the first
// structural error encountered: header, then directory, then payload bounds.
func Decode(container []byte) (*ResourceStore, error) {
	if int64(len(container)) > maxContainer {
		return nil, fmt.Errorf("%w: container of %d bytes", ErrMalformedHeader, len(container))
	}

	cur := NewReadCursor(container, binary.LittleEndian)

	header, err := parseHeader(cur, len(container))
	if err != nil {
		return nil, err
	}

	if err := cur.Seek(int(header.TableOffset)); err != nil {
		return nil, fmt.Errorf("seek directory: %w", err)
	}

	records, err := parseEntries(cur, header.EntryCount, len(container))
	if err != nil {
		return nil, err
	}

	entries := make([]ResourceEntry, len(records))
	for i, rec := range records {
		payload := make([]byte, rec.PayloadSize)
		copy(payload, container[rec.PayloadOffset:int64(rec.PayloadOffset)+int64(rec.PayloadSize)])

		entries[i] = ResourceEntry{
			Name:         rec.Name,
			ID:           rec.ID,
			Flags:        rec.Flags,
			OriginalSize: rec.OriginalSize,
			Meta:         rec.Meta,
			payload:      payload,
		}
	}

	return newStore(header.Version, header.Flags, entries)
}

// Encode serializes the store into container bytes in a single
// deterministic pass: header first, directory second, payloads third, each
// payload placed at the next 4-byte boundary with zero padding. Padding
// bytes are never drawn from input data.
func (s *ResourceStore) Encode() ([]byte, error) {
	records := make([]DirectoryEntry, len(s.entries))

	offset := int64(headerSize) + int64(len(s.entries))*entryRecordSize
	for i := range s.entries {
		e := &s.entries[i]
		offset = alignUp(offset, payloadAlign)

		if offset >= maxContainer || offset+int64(len(e.payload)) > maxContainer {
			return nil, fmt.Errorf("%w: entry %d payload would exceed 4 GiB container", ErrMalformedDirectory, e.ID)
		}

		records[i] = DirectoryEntry{
			Name:          e.Name,
			ID:            e.ID,
			PayloadOffset: uint32(offset),
			PayloadSize:   e.StoredSize(),
			Flags:         e.Flags,
			OriginalSize:  e.OriginalSize,
			Meta:          e.Meta,
		}

		offset += int64(len(e.payload))
	}

	header := ContainerHeader{
		Version:     s.version,
		Flags:       s.flags,
		EntryCount:  uint32(len(s.entries)),
		TableOffset: headerSize,
	}

	headerBytes, err := serializeHeader(header)
	if err != nil {
		return nil, err
	}

	directoryBytes, err := serializeEntries(records)
	if err != nil {
		return nil, err
	}

	cur := NewWriteCursor(int(offset), binary.LittleEndian)
	if err := cur.WriteBytes(headerBytes); err != nil {
		return nil, err
	}
	if err := cur.WriteBytes(directoryBytes); err != nil {
		return nil, err
	}

	for i := range s.entries {
		pad := int(records[i].PayloadOffset) - cur.Pos()
		if pad > 0 {
			if err := cur.WriteBytes(make([]byte, pad)); err != nil {
				return nil, err
			}
		}

		if err := cur.WriteBytes(s.entries[i].payload); err != nil {
			return nil, err
		}
	}

	return cur.Bytes(), nil
}

// Version returns the container format version.
func (s *ResourceStore) Version() uint16 {
	return s.version
}

// Flags returns the opaque container-level flags word.
func (s *ResourceStore) Flags() uint16 {
	return s.flags
}

// Len returns the number of entries in the store.
func (s *ResourceStore) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entry sequence in container order.
// Payload bytes stay owned by the store; use Payload or Data per entry.
func (s *ResourceStore) Entries() []ResourceEntry {
	out := make([]ResourceEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Entry returns the entry with the given id.
func (s *ResourceStore) Entry(id uint32) (ResourceEntry, error) {
	i, ok := s.byID[id]
	if !ok {
		return ResourceEntry{}, fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}

	return s.entries[i], nil
}

// EntryByName returns the first entry with the given name key.
func (s *ResourceStore) EntryByName(name string) (ResourceEntry, error) {
	for i := range s.entries {
		if s.entries[i].Name == name {
			return s.entries[i], nil
		}
	}

	return ResourceEntry{}, fmt.Errorf("%w: name %q", ErrEntryNotFound, name)
}

// Data returns the usable (decompressed) payload of the entry with the
// given id.
func (s *ResourceStore) Data(id uint32) ([]byte, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}

	return s.entries[i].Data()
}

// Replace swaps the payload of the entry with the given id wholesale. The
// new payload is stored raw: the compressed flag is cleared and the
// original size reset. Name, id, meta, and remaining flag bits are kept.
func (s *ResourceStore) Replace(id uint32, payload []byte) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}

	owned := make([]byte, len(payload))
	copy(owned, payload)

	s.entries[i].payload = owned
	s.entries[i].Flags &^= FlagCompressed
	s.entries[i].OriginalSize = 0
	return nil
}

// alignUp rounds offset up to the next multiple of align.
func alignUp(offset int64, align int64) int64 {
	rem := offset % align
	if rem == 0 {
		return offset
	}

	return offset + align - rem
}
