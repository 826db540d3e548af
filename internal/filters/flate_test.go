package filters

import (
	"bytes"
	"strings"
	"testing"
)

// TestFlateEncodeDecode tests that encoded data decodes back to the original
func TestFlateEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("BT /F1 12 Tf ET")},
		{"repetitive", []byte(strings.Repeat("0.4 0.4 0.4 rg\n", 200))},
		{"binary", []byte{0, 1, 2, 0xFF, 0xFE, '\n', '\r'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := FlateEncode(tt.data)
			if err != nil {
				t.Fatalf("FlateEncode failed: %v", err)
			}

			decoded, err := FlateDecode(encoded, Params{})
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}

			if !bytes.Equal(decoded, tt.data) {
				t.Errorf("decoded data doesn't match original\ngot:  %q\nwant: %q", decoded, tt.data)
			}
		})
	}
}

// TestFlateEncodeDeterministic tests that the same input compresses identically
func TestFlateEncodeDeterministic(t *testing.T) {
	data := []byte(strings.Repeat("(Slide 1 of 3) Tj\n", 50))

	first, err := FlateEncode(data)
	if err != nil {
		t.Fatalf("FlateEncode failed: %v", err)
	}
	second, err := FlateEncode(data)
	if err != nil {
		t.Fatalf("FlateEncode failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected identical output for identical input")
	}
}

// TestFlateEncodeCompresses tests that repetitive content shrinks
func TestFlateEncodeCompresses(t *testing.T) {
	data := []byte(strings.Repeat("50 532 Td\n", 100))

	encoded, err := FlateEncode(data)
	if err != nil {
		t.Fatalf("FlateEncode failed: %v", err)
	}

	if len(encoded) >= len(data) {
		t.Errorf("expected compressed size < %d, got %d", len(data), len(encoded))
	}
}

// TestFlateDecodeInvalidZlib tests error handling for invalid data
func TestFlateDecodeInvalidZlib(t *testing.T) {
	_, err := FlateDecode([]byte("not zlib data"), Params{})
	if err == nil {
		t.Error("expected error for invalid zlib data")
	}
}

// TestZlibDecompressTruncated tests error handling for a cut-off stream
func TestZlibDecompressTruncated(t *testing.T) {
	encoded, err := FlateEncode([]byte(strings.Repeat("truncated ", 40)))
	if err != nil {
		t.Fatalf("FlateEncode failed: %v", err)
	}

	_, err = zlibDecompress(encoded[:len(encoded)/2])
	if err == nil {
		t.Error("expected error for truncated data")
	}
}
