// Package font provides the standard PDF fonts used to lay out text: their
// glyph widths and the WinAnsiEncoding used to show them.
//
// # Standard Fonts
//
// Only the Helvetica and Courier families are offered. Their metrics come
// from the Adobe Font Metrics files, so measured widths match what a viewer
// renders:
//
//	f, err := font.Standard("Helvetica-Bold")
//	width := f.StringWidth("THE ASK", 28) // points
//
// # Encoding
//
// Text is NFC-normalized and encoded to Windows code page 1252
// (WinAnsiEncoding). Characters outside the code page, and control
// characters, fail with [ErrUnsupportedGlyph]:
//
//	codes, err := f.Encode("Café")
//
// [Font.Dict] returns the font dictionary to reference from page resources.
package font
