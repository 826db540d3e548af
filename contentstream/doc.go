// Package contentstream builds and parses PDF content streams.
//
// Content streams contain the instructions for rendering page content:
// text display, graphics state changes and path painting.
//
// # Building
//
// [Builder] records operations in drawing order and serializes them one per
// line:
//
//	b := contentstream.NewBuilder()
//	b.SetStrokeRGB(0.8, 0.8, 0.8).Rectangle(50, 212, 692, 200).Stroke()
//	b.BeginText().SetFont("F1", 14).MoveText(70, 392).ShowText(codes).EndText()
//	data, err := b.Bytes()
//
// # Parsing
//
// [Parser] reads a content stream back into operations:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// # Common Operators
//
// Text operators:
//   - BT, ET - Begin/end text object
//   - Tf - Set font and size
//   - TL - Set leading
//   - Td, T* - Move text position
//   - Tj - Show text
//
// Graphics state operators:
//   - q, Q - Save/restore graphics state
//   - w - Set line width
//   - rg, RG - Set fill/stroke colour
//
// Path operators:
//   - re - Rectangle
//   - S, f, B, n - Stroke, fill, fill and stroke, end path
package contentstream
