// Package text recovers positioned text from PDF content streams.
//
// The [Extractor] replays a page's operations and turns every shown string
// into a [TextFragment] carrying its decoded text, baseline position, width
// and font:
//
//	ex := text.NewExtractor()
//	if err := ex.RegisterFontsFromPage(page, r); err != nil {
//		return err
//	}
//	if _, err := ex.ExtractFromBytes(content); err != nil {
//		return err
//	}
//	fmt.Println(ex.GetText())
//
// # Fonts
//
// Codes are decoded through the font's ToUnicode CMap when it has one,
// otherwise through WinAnsiEncoding or MacRomanEncoding. Widths come from
// the font's /Widths array, then the standard 14 metrics, then a half-em
// estimate.
//
// # Layout
//
// GetText keeps drawing order. Fragments on the same baseline form one
// line; a visible gap between fragments becomes a space and a large
// vertical gap becomes a blank line.
package text
