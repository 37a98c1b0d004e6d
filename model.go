// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	headerSize      = 16      // fixed ICX header size in bytes
	entryRecordSize = 80      // fixed directory record size in bytes
	nameSize        = 48      // NUL-padded entry key width
	metaSize        = 12      // opaque per-entry metadata width
	payloadAlign    = 4       // payload start alignment in container
	maxEntryCount   = 65535   // sanity ceiling for header entry count
	maxContainer    = 1 << 32 // max addressable container size (4 GiB)
)

// Magic is the 4-byte container signature at offset zero.
const Magic = "ICX1"

// Version is the only supported container format version.
const Version uint16 = 1

// Default packer tuning values.
const (
	DefaultMaxEntrySize    = 64 * 1024 * 1024
	DefaultMinCompressSize = 512
	DefaultMaxCompressSize = 16 * 1024 * 1024
)

// EntryFlags is the 32-bit per-entry flags word from the directory record.
// Only FlagCompressed is interpreted; all other bits are round-tripped
// verbatim.
type EntryFlags uint32

// Directory entry flag bits.
const (
	// FlagCompressed marks an entry whose payload is stored LZSS-compressed.
	FlagCompressed EntryFlags = 1 << 0
)

// Compressed reports whether the flags word has the LZSS bit set.
func (f EntryFlags) Compressed() bool {
	return f&FlagCompressed != 0
}

// ManifestName is the manifest filename inside a working directory.
const ManifestName = "manifest.json"

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(entry ResourceEntry, written int64, outputPath string) `json:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	// Prior content for an entry is overwritten, never merged.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// PackOptions configures Pack behavior.
type PackOptions struct {
	// OnEntryDone is called after one manifest entry is loaded and staged.
	OnEntryDone func(entry ResourceEntry) `json:"-"`
	// Compress defines ordered entry-name rules for compression candidate selection.
	// Empty rule set means no new compression; entries whose manifest flags
	// already carry the compressed bit are recompressed regardless.
	Compress []pathrules.Rule `json:"compress,omitempty"`
	// CompressMatcherOptions control compression rule matching.
	CompressMatcherOptions pathrules.MatcherOptions `json:"compress_matcher_options,omitzero"`
	// MaxEntrySize rejects payload files larger than this size.
	// Default is 64 MiB.
	MaxEntrySize int64 `json:"max_entry_size,omitempty"`
	// MinCompressSize disables compression for entries smaller than this size.
	// Default is 512 bytes.
	MinCompressSize uint32 `json:"min_compress_size,omitempty"`
	// MaxCompressSize disables compression for entries larger than this size.
	// Default is 16 MiB.
	MaxCompressSize uint32 `json:"max_compress_size,omitempty"`
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeTruncate
	}
}

// applyDefaults fills zero-valued pack options with defaults.
func (opts *PackOptions) applyDefaults() {
	if opts.MaxEntrySize <= 0 {
		opts.MaxEntrySize = DefaultMaxEntrySize
	}

	if opts.MinCompressSize == 0 {
		opts.MinCompressSize = DefaultMinCompressSize
	}

	if opts.MaxCompressSize == 0 || opts.MaxCompressSize <= opts.MinCompressSize {
		opts.MaxCompressSize = DefaultMaxCompressSize
	}

	if opts.CompressMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.CompressMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.CompressMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.CompressMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}
