// SPDX-License-Identifier: MIT
// Copyright (c) 2026 icxkit
// Source: github.com/icxkit/icx

package icx

import "bytes"

// payloadMarker maps one known format signature to a file extension.
type payloadMarker struct {
	magic []byte
	ext   string
}

// payloadMarkers lists known payload signatures in match order. ICO and CUR
// share the reserved-zero prefix and differ in the type word, so both
// appear explicitly before any shorter prefixes could shadow them.
var payloadMarkers = []payloadMarker{
	{magic: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, ext: ".png"},
	{magic: []byte{0xff, 0xd8, 0xff}, ext: ".jpg"},
	{magic: []byte("GIF87a"), ext: ".gif"},
	{magic: []byte("GIF89a"), ext: ".gif"},
	{magic: []byte("BM"), ext: ".bmp"},
	{magic: []byte{0x00, 0x00, 0x01, 0x00}, ext: ".ico"},
	{magic: []byte{0x00, 0x00, 0x02, 0x00}, ext: ".cur"},
	{magic: []byte("fdrq"), ext: ".dat"},
}

// sniffExtension picks a file extension by inspecting the payload's own
// format marker. Unrecognized payloads get a generic binary extension;
// nothing is ever guessed from context.
func sniffExtension(payload []byte) string {
	for _, m := range payloadMarkers {
		if bytes.HasPrefix(payload, m.magic) {
			return m.ext
		}
	}

	return ".bin"
}
