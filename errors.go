// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import "errors"

// Sentinel errors for ICX operations. Use errors.Is in callers.
var (
	// ErrBadMagic means the container does not start with the ICX1 signature.
	ErrBadMagic = errors.New("invalid ICX container: bad magic")
	// ErrUnsupportedVersion means the header version is outside the supported set.
	ErrUnsupportedVersion = errors.New("unsupported ICX container version")
	// ErrMalformedHeader means a header field is out of container bounds or over a sanity ceiling.
	ErrMalformedHeader = errors.New("malformed ICX header")
	// ErrMalformedDirectory means a directory record is corrupt: out-of-bounds payload,
	// duplicate id, or overlapping payload regions.
	ErrMalformedDirectory = errors.New("malformed ICX directory")
	// ErrTruncatedInput means fewer bytes remain than a read requested.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrOversize means a payload exceeds the configured maximum entry size.
	ErrOversize = errors.New("payload exceeds maximum entry size")
	// ErrMissingManifest means the working directory has no manifest file.
	ErrMissingManifest = errors.New("missing manifest in working directory")
	// ErrMissingPayloadFile means a payload file referenced by the manifest is absent.
	ErrMissingPayloadFile = errors.New("missing payload file referenced by manifest")
	// ErrMalformedManifest means the manifest file cannot be decoded or violates its invariants.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrEntryNotFound means no entry with the requested id or name exists in the store.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrRegionOverflow means a fixed-size write region would be overrun.
	ErrRegionOverflow = errors.New("write exceeds fixed region")
	// ErrInvalidCompressPattern means one or more compression rules are invalid.
	ErrInvalidCompressPattern = errors.New("invalid compress rules")
	// ErrIO wraps filesystem failures during extract and pack.
	ErrIO = errors.New("i/o failure")
)
