// Package graphicsstate tracks the PDF graphics state while a content
// stream is replayed.
//
// GraphicsState holds the parts of the state the slide writer uses: line
// width, DeviceRGB stroke and fill colours, and the text state (font
// resource, size, leading and the origin of the current text line). Save
// and Restore implement the q and Q operators.
//
// Extractor drives a GraphicsState from a list of operations and records
// what was painted:
//
//	ex := graphicsstate.NewExtractor()
//	if err := ex.Extract(ops); err != nil {
//		return err
//	}
//	for _, s := range ex.Strings() {
//		fmt.Println(s.Font, s.Position, string(s.Codes))
//	}
//
// Only translations and the scale of the text matrix are tracked. Tm moves
// the line origin and scales later font sizes; cm is ignored.
package graphicsstate
