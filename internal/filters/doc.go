// Package filters provides the PDF stream filters used when writing and
// reading back rendered documents.
//
// # Supported Filters
//
// FlateEncode / FlateDecode (zlib/deflate):
//
//	compressed, err := filters.FlateEncode(data)
//	decoded, err := filters.FlateDecode(compressed, filters.Params{})
//
// Streams read back from other producers may carry /DecodeParms with a TIFF
// or PNG predictor, typically cross-reference streams. [Params] names it and
// FlateDecode reverses it after decompression.
//
// FlateEncode always compresses at the same level, so identical input yields
// identical output. Rendered documents depend on this to stay byte-for-byte
// reproducible.
package filters
