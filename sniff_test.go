package icx

import "testing"

func TestSniffExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n....IHDR"), ".png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, ".jpg"},
		{"gif87", []byte("GIF87a......"), ".gif"},
		{"gif89", []byte("GIF89a......"), ".gif"},
		{"bmp", []byte("BM6\x00\x00\x00"), ".bmp"},
		{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00}, ".ico"},
		{"cur", []byte{0x00, 0x00, 0x02, 0x00, 0x01, 0x00}, ".cur"},
		{"fdrq", []byte("fdrq\x01\x02"), ".dat"},
		{"unknown", []byte{0xde, 0xad, 0xbe, 0xef}, ".bin"},
		{"empty", nil, ".bin"},
		{"short png prefix", []byte("\x89PN"), ".bin"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := sniffExtension(tc.payload); got != tc.want {
				t.Fatalf("sniffExtension=%q, want %q", got, tc.want)
			}
		})
	}
}
