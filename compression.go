// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/woozymasta/lzss"
	"github.com/woozymasta/pathrules"
)

// compressMatcher holds compiled allow-list rules for compression.
type compressMatcher struct {
	matcher *pathrules.Matcher
}

// newCompressMatcher compiles compression entry-name rules.
func newCompressMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*compressMatcher, error) {
	rules = normalizeCompressRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidCompressPattern, err)
	}

	return &compressMatcher{matcher: matcher}, nil
}

// normalizeCompressRules trims rule patterns and drops empty patterns.
func normalizeCompressRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether the entry name is included by at least one rule.
func (m *compressMatcher) Match(name string) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	candidate := strings.TrimSpace(name)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// shouldCompress returns true if name and size pass compression policy.
func shouldCompress(opts PackOptions, matcher *compressMatcher, name string, size uint32) bool {
	if !shouldCompressBySize(opts, size) {
		return false
	}

	if matcher == nil {
		return false
	}

	return matcher.Match(name)
}

// shouldCompressBySize reports whether payload size fits compression boundaries.
func shouldCompressBySize(opts PackOptions, size uint32) bool {
	if size > opts.MaxCompressSize || size < opts.MinCompressSize {
		return false
	}

	return true
}

// compressLZSS compresses the data using LZSS.
func compressLZSS(data []byte) ([]byte, error) {
	return lzss.Compress(data, lzss.DefaultCompressOptions())
}

// decompressLZSS expands an LZSS-compressed payload to its recorded
// original size.
func decompressLZSS(data []byte, originalSize uint32) ([]byte, error) {
	if uint64(originalSize) > uint64(math.MaxInt) {
		return nil, fmt.Errorf("%w: original size %d", ErrOversize, originalSize)
	}

	var out bytes.Buffer
	out.Grow(int(originalSize))

	if _, err := lzss.DecompressToWriter(&out, bytes.NewReader(data), int(originalSize), nil); err != nil {
		return nil, err
	}

	if out.Len() != int(originalSize) {
		return nil, fmt.Errorf("decompressed %d bytes, directory declares %d", out.Len(), originalSize)
	}

	return out.Bytes(), nil
}
