package core

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// writtenFile returns a small file produced by Writer.
func writtenFile(t *testing.T) []byte {
	t.Helper()
	w := NewWriter("1.4")
	catalog := w.Allocate()
	pages := w.Allocate()
	if err := w.Write(pages, Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Int(0)}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(catalog, Dict{"Type": Name("Catalog"), "Pages": pages}); err != nil {
		t.Fatal(err)
	}
	stream, err := NewFlateStream(nil, []byte("BT /F1 12 Tf (hi) Tj ET"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Add(stream); err != nil {
		t.Fatal(err)
	}
	data, err := w.Finish(Dict{"Root": catalog})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// TestParseWriterXRef tests that the writer's table and objects read back
func TestParseWriterXRef(t *testing.T) {
	data := writtenFile(t)
	table, err := NewXRefParser(data).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}

	if size, _ := table.Trailer.GetInt("Size"); size != 4 {
		t.Errorf("trailer /Size = %d, want 4", size)
	}
	if root := table.Trailer.Get("Root"); root != (IndirectRef{Number: 1}) {
		t.Errorf("trailer /Root = %v", root)
	}
	if e, ok := table.Get(0); !ok || e.InUse || e.Generation != 65535 {
		t.Errorf("entry 0 = %+v", e)
	}

	p := NewParser(data)
	for num := 1; num <= 3; num++ {
		e, ok := table.Get(num)
		if !ok || !e.InUse {
			t.Fatalf("entry %d = %+v", num, e)
		}
		if err := p.Seek(e.Offset); err != nil {
			t.Fatal(err)
		}
		obj, err := p.ParseIndirectObject()
		if err != nil {
			t.Fatalf("object %d: %v", num, err)
		}
		if obj.Ref.Number != num {
			t.Errorf("entry %d points at object %d", num, obj.Ref.Number)
		}
	}

	e, _ := table.Get(3)
	_ = p.Seek(e.Offset)
	obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := obj.Object.(*Stream).Decode()
	if err != nil || string(decoded) != "BT /F1 12 Tf (hi) Tj ET" {
		t.Errorf("content = %q, %v", decoded, err)
	}
}

func TestParseXRefSubsections(t *testing.T) {
	data := []byte("%PDF-1.4\n" +
		"xref\n0 1\n0000000000 65535 f \n5 2\n0000000100 00000 n \n0000000200 00002 n \n" +
		"trailer\n<</Size 7>>\nstartxref\n9\n%%EOF\n")

	table, err := NewXRefParser(data).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}
	if len(table.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(table.Entries))
	}
	if e, _ := table.Get(6); e.Offset != 200 || e.Generation != 2 || !e.InUse {
		t.Errorf("entry 6 = %+v", e)
	}
}

// xrefStreamFile builds a file whose only cross-reference section is a
// stream with an /Index and a 2 byte offset field.
func xrefStreamFile(filter string, rows []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")
	off := buf.Len()
	fmt.Fprintf(&buf, "9 0 obj\n<</Type /XRef /Size 10 /W [1 2 1] /Index [0 1 8 2] /Root 8 0 R%s /Length %d>>\nstream\n",
		filter, len(rows))
	buf.Write(rows)
	buf.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", off)
	return buf.Bytes()
}

func TestParseXRefStream(t *testing.T) {
	rows := []byte{
		0, 0, 0, 0xff,
		2, 0, 3, 4,
		1, 0, 9, 0,
	}
	table, err := NewXRefParser(xrefStreamFile("", rows)).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}

	want := map[int]*XRefEntry{
		0: {Generation: 255},
		8: {InUse: true, Compressed: true, StreamNumber: 3, StreamIndex: 4},
		9: {Offset: 9, InUse: true},
	}
	if !reflect.DeepEqual(table.Entries, want) {
		for n, e := range table.Entries {
			t.Logf("entry %d = %+v", n, e)
		}
		t.Error("unexpected entries")
	}
	if root := table.Trailer.Get("Root"); root != (IndirectRef{Number: 8}) {
		t.Errorf("trailer /Root = %v", root)
	}
}

func TestParseXRefStreamTruncated(t *testing.T) {
	if _, err := NewXRefParser(xrefStreamFile("", []byte{1, 0, 9})).ParseAllXRefs(); err == nil {
		t.Error("expected error for short cross-reference stream")
	}
}

// TestParseXRefChain tests /Prev chains and that newer sections win
func TestParseXRefChain(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	first := buf.Len()
	buf.WriteString("xref\n0 3\n0000000000 65535 f \n0000000010 00000 n \n0000000020 00000 n \n" +
		"trailer\n<</Size 3 /Root 1 0 R>>\n")
	second := buf.Len()
	fmt.Fprintf(&buf, "xref\n2 2\n0000000030 00000 n \n0000000040 00000 n \ntrailer\n<</Size 4 /Root 1 0 R /Prev %d>>\n", first)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", second)

	table, err := NewXRefParser(buf.Bytes()).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}
	offsets := map[int]int64{1: 10, 2: 30, 3: 40}
	for num, off := range offsets {
		if e, ok := table.Get(num); !ok || e.Offset != off {
			t.Errorf("entry %d = %+v, want offset %d", num, e, off)
		}
	}
	if size, _ := table.Trailer.GetInt("Size"); size != 4 {
		t.Errorf("trailer /Size = %d, want the newest trailer's 4", size)
	}
}

func TestParseXRefLoop(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	off := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 1\n0000000000 65535 f \ntrailer\n<</Size 1 /Prev %d>>\nstartxref\n%d\n%%%%EOF\n", off, off)

	if _, err := NewXRefParser(buf.Bytes()).ParseAllXRefs(); err != nil {
		t.Errorf("self-referencing /Prev: %v", err)
	}
}

func TestParseXRefErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no startxref", "%PDF-1.4\n"},
		{"offset out of range", "%PDF-1.4\nstartxref\n99999\n%%EOF\n"},
		{"not a section", "%PDF-1.4\nhello\nstartxref\n9\n%%EOF\n"},
		{"bad entry", "%PDF-1.4\nxref\n0 1\n0000000000 65535 x \ntrailer\n<<>>\nstartxref\n9\n%%EOF\n"},
		{"trailer not a dict", "%PDF-1.4\nxref\n0 0\ntrailer\n[1]\nstartxref\n9\n%%EOF\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewXRefParser([]byte(tt.data)).ParseAllXRefs(); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := NewXRefParser([]byte("%PDF-1.4\n")).FindXRef(); !errors.Is(err, ErrNoXRef) {
		t.Errorf("FindXRef error = %v, want ErrNoXRef", err)
	}
}

func TestMergeXRefTables(t *testing.T) {
	newer := &XRefTable{
		Entries: map[int]*XRefEntry{1: {Offset: 100, InUse: true}},
		Trailer: Dict{"Size": Int(3)},
	}
	older := &XRefTable{
		Entries: map[int]*XRefEntry{1: {Offset: 10, InUse: true}, 2: {Offset: 20, InUse: true}},
		Trailer: Dict{"Size": Int(2)},
	}
	merged := MergeXRefTables(newer, older)

	if e, _ := merged.Get(1); e.Offset != 100 {
		t.Errorf("entry 1 offset = %d, want 100", e.Offset)
	}
	if e, _ := merged.Get(2); e.Offset != 20 {
		t.Errorf("entry 2 offset = %d, want 20", e.Offset)
	}
	if size, _ := merged.Trailer.GetInt("Size"); size != 3 {
		t.Errorf("trailer /Size = %d, want 3", size)
	}
}
