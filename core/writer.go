package core

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrWriterClosed is returned by operations on a finished Writer.
	ErrWriterClosed = errors.New("writer already finished")

	// ErrUnknownRef is returned when writing a reference that was never
	// allocated by this Writer.
	ErrUnknownRef = errors.New("reference not allocated by this writer")

	// ErrDuplicateObject is returned when an object number is written twice.
	ErrDuplicateObject = errors.New("object already written")

	// ErrMissingObject is returned by Finish when an allocated object was
	// never written.
	ErrMissingObject = errors.New("allocated object never written")
)

// binaryMarker is the comment placed after the header so transfer tools treat
// the file as binary.
const binaryMarker = "%\xe2\xe3\xcf\xd3\n"

// Writer assembles a complete PDF file in memory: header, indirect objects,
// cross-reference table and trailer. Object numbers are handed out in
// allocation order, so the same sequence of calls always produces the same
// bytes.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	buf    bytes.Buffer
	xref   *XRefTable
	next   int
	closed bool
}

// NewWriter creates a Writer and emits the file header for the given PDF
// version (for example "1.4").
func NewWriter(version string) *Writer {
	w := &Writer{
		xref: NewXRefTable(),
		next: 1,
	}
	fmt.Fprintf(&w.buf, "%%PDF-%s\n", version)
	w.buf.WriteString(binaryMarker)
	return w
}

// Allocate reserves the next object number. Reserving before writing lets
// objects refer to each other regardless of write order.
func (w *Writer) Allocate() IndirectRef {
	ref := IndirectRef{Number: w.next}
	w.next++
	return ref
}

// Add allocates a reference and writes obj under it.
func (w *Writer) Add(obj Object) (IndirectRef, error) {
	ref := w.Allocate()
	if err := w.Write(ref, obj); err != nil {
		return IndirectRef{}, err
	}
	return ref, nil
}

// Write emits obj as the indirect object ref. Streams get their /Length
// set from the data.
func (w *Writer) Write(ref IndirectRef, obj Object) error {
	if w.closed {
		return ErrWriterClosed
	}
	if ref.Number <= 0 || ref.Number >= w.next {
		return fmt.Errorf("%w: %s", ErrUnknownRef, ref)
	}
	if _, ok := w.xref.Get(ref.Number); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, ref)
	}

	body, err := encodeIndirect(obj)
	if err != nil {
		return fmt.Errorf("object %d: %w", ref.Number, err)
	}

	offset := int64(w.buf.Len())
	fmt.Fprintf(&w.buf, "%d %d obj\n", ref.Number, ref.Generation)
	w.buf.Write(body)
	w.buf.WriteString("\nendobj\n")

	w.xref.Set(ref.Number, &XRefEntry{
		Offset:     offset,
		Generation: ref.Generation,
		InUse:      true,
	})
	return nil
}

// Finish writes the cross-reference table and trailer and returns the
// complete file. /Size is filled in from the allocated object count. No
// bytes are returned unless every allocated object has been written.
func (w *Writer) Finish(trailer Dict) ([]byte, error) {
	if w.closed {
		return nil, ErrWriterClosed
	}

	for num := 1; num < w.next; num++ {
		if _, ok := w.xref.Get(num); !ok {
			return nil, fmt.Errorf("%w: object %d", ErrMissingObject, num)
		}
	}

	t := trailer.Clone()
	t["Size"] = Int(w.next)
	encoded, err := Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}

	xrefOffset := w.buf.Len()
	if _, err := w.xref.WriteTo(&w.buf, w.next); err != nil {
		return nil, fmt.Errorf("xref: %w", err)
	}
	w.xref.Trailer = t

	w.buf.WriteString("trailer\n")
	w.buf.Write(encoded)
	fmt.Fprintf(&w.buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	w.closed = true
	return w.buf.Bytes(), nil
}

// encodeIndirect returns the body of an indirect object. Streams are written
// as their dictionary followed by the raw data.
func encodeIndirect(obj Object) ([]byte, error) {
	s, ok := obj.(*Stream)
	if !ok {
		return Marshal(obj)
	}

	d := s.Dict.Clone()
	d["Length"] = Int(len(s.Data))
	body, err := Marshal(d)
	if err != nil {
		return nil, err
	}

	body = append(body, "\nstream\n"...)
	body = append(body, s.Data...)
	body = append(body, "\nendstream"...)
	return body, nil
}
