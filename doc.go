// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

/*
Package icx reads and writes ICX icon resource containers: a single binary
file bundling a fixed, ordered collection of icon images used by an
application UI. The codec is symmetric: decoding a container and re-encoding
the resulting store reproduces the input byte-for-byte, and a working
directory produced by extraction packs back into an equivalent container.

Icon pixel data is opaque payload. The package never decodes or edits
images; payload bytes are copied verbatim in both directions, with optional
container-level LZSS compression as the only transform.

# Decoding

Decode a container from memory or from a file:

	store, err := icx.DecodeFile("IconResources.idx")
	if err != nil {
	    return err
	}
	for _, e := range store.Entries() {
	    data, _ := store.Data(e.ID)
	    // use data
	}

# Extracting

Extract all entries into a working directory plus a manifest:

	if err := icx.Extract(ctx, store, "work/", icx.ExtractOptions{}); err != nil {
	    return err
	}

Each entry becomes one file named from its key (extension chosen by payload
sniffing), and work/manifest.json records order and metadata needed for
exact reconstruction.

# Packing

Pack a working directory back into container bytes. The manifest is
authoritative: files it does not reference are ignored.

	store, err := icx.Pack(ctx, "work/", icx.PackOptions{})
	if err != nil {
	    return err
	}
	if err := store.EncodeFile("IconResources.idx"); err != nil {
	    return err
	}

Compression candidates may be selected by entry name using
github.com/woozymasta/pathrules; compressed form is kept only when it is
strictly smaller than the raw payload:

	store, err := icx.Pack(ctx, "work/", icx.PackOptions{
	    Compress: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "Splash*"},
	    },
	})

Entries that were stored compressed in the source container are
recompressed on pack regardless of rules, so a plain extract/pack cycle
reproduces the original bytes.

All structural errors are sentinel values; use errors.Is. The codec fails
on the first structural error and never attempts partial recovery: a
container with a duplicate id, an out-of-bounds payload, or overlapping
payload regions is rejected as a whole.
*/
package icx
