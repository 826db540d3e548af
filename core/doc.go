// Package core provides the PDF object model and the low-level writer that
// turns objects into a complete file.
//
// # Object Types
//
// PDF defines eight basic object types, all implemented as types satisfying the
// Object interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents PDF string objects
//   - [Name] - represents PDF name objects (e.g., /Type, /Font)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries
//
// Additionally, [Stream] represents a PDF stream (dictionary + binary data),
// and [IndirectRef] represents a reference to an indirect object.
//
// # Encoding
//
// [Marshal] and [AppendObject] produce PDF syntax for direct objects.
// Dictionary keys are always written in sorted order and reals are rounded
// to a fixed precision, so a given object always encodes to the same bytes.
//
// # Writing Files
//
// [Writer] assembles a file: header, indirect objects, a cross-reference
// table ([XRefTable]) and the trailer:
//
//	w := core.NewWriter("1.4")
//	catalog := w.Allocate()
//	pages, _ := w.Add(core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{}, "Count": core.Int(0)})
//	_ = w.Write(catalog, core.Dict{"Type": core.Name("Catalog"), "Pages": pages})
//	data, err := w.Finish(core.Dict{"Root": catalog})
//
// # Streams
//
// [NewFlateStream] compresses content with FlateDecode; [Stream.Decode]
// reverses it.
package core
