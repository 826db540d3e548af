package filters

import (
	"bytes"
	"testing"
)

// TestFlateDecodePredictors tests predictor reversal after decompression
func TestFlateDecodePredictors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		raw    []byte
		want   []byte
	}{
		{"none", Params{}, []byte{1, 2, 3}, []byte{1, 2, 3}},
		{"tiff", Params{Predictor: 2, Columns: 3}, []byte{1, 1, 1, 5, 0, 1}, []byte{1, 2, 3, 5, 5, 6}},
		{"png none", Params{Predictor: 10, Columns: 2}, []byte{0, 7, 8}, []byte{7, 8}},
		{"png sub", Params{Predictor: 11, Columns: 3}, []byte{1, 5, 1, 1}, []byte{5, 6, 7}},
		{"png up", Params{Predictor: 12, Columns: 3}, []byte{2, 1, 2, 3, 2, 1, 1, 1}, []byte{1, 2, 3, 2, 3, 4}},
		{"png average", Params{Predictor: 13, Columns: 2}, []byte{0, 4, 6, 3, 1, 1}, []byte{4, 6, 3, 5}},
		{"png paeth", Params{Predictor: 14, Columns: 3}, []byte{4, 10, 0, 0}, []byte{10, 10, 10}},
		{"xref stream widths", Params{Predictor: 12, Columns: 4}, []byte{2, 1, 0, 16, 0, 2, 0, 0, 9, 0}, []byte{1, 0, 16, 0, 1, 0, 25, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := FlateEncode(tt.raw)
			if err != nil {
				t.Fatalf("FlateEncode failed: %v", err)
			}
			got, err := FlateDecode(encoded, tt.params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFlateDecodePredictorErrors tests malformed predicted data
func TestFlateDecodePredictorErrors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		raw    []byte
	}{
		{"ragged rows", Params{Predictor: 12, Columns: 3}, []byte{2, 1, 2}},
		{"unknown row filter", Params{Predictor: 15, Columns: 1}, []byte{9, 1}},
		{"unknown predictor", Params{Predictor: 5}, []byte{1}},
		{"16 bit samples", Params{Predictor: 12, BitsPerComponent: 16}, []byte{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, _ := FlateEncode(tt.raw)
			if _, err := FlateDecode(encoded, tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}
