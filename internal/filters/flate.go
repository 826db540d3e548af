package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateLevel is the zlib compression level used by FlateEncode.
const FlateLevel = zlib.BestCompression

// FlateEncode compresses data with zlib for use under the FlateDecode filter.
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, FlateLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush compressed data: %w", err)
	}

	return buf.Bytes(), nil
}

// FlateDecode decompresses Flate (zlib/deflate) compressed data and undoes
// the predictor named in params, if any. The zero Params means no predictor.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	decompressed, err := zlibDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	if params.Predictor > 1 {
		decompressed, err = params.unpredict(decompressed)
		if err != nil {
			return nil, fmt.Errorf("predictor %d: %w", params.Predictor, err)
		}
	}
	return decompressed, nil
}

// zlibDecompress decompresses zlib-compressed data using the standard library.
func zlibDecompress(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return buf.Bytes(), nil
}
