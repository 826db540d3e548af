package core

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrNoXRef is returned when no startxref pointer can be found.
var ErrNoXRef = errors.New("startxref not found")

// startXRefWindow is how far from the end of the file startxref is searched.
const startXRefWindow = 1024

// maxXRefChain bounds the number of /Prev sections followed.
const maxXRefChain = 256

// XRefParser reads the cross-reference information of a complete file.
// Classic tables and cross-reference streams are both understood, as are
// /Prev chains left by incremental updates.
type XRefParser struct {
	data   []byte
	parser *Parser
}

// NewXRefParser creates a parser over the whole file.
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data, parser: NewParser(data)}
}

// FindXRef returns the offset named by the last startxref keyword.
func (x *XRefParser) FindXRef() (int64, error) {
	start := len(x.data) - startXRefWindow
	if start < 0 {
		start = 0
	}
	i := bytes.LastIndex(x.data[start:], []byte("startxref"))
	if i < 0 {
		return 0, ErrNoXRef
	}

	if err := x.parser.Seek(int64(start + i + len("startxref"))); err != nil {
		return 0, err
	}
	tok, err := x.parser.current()
	if err != nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("%w: no offset after startxref", ErrNoXRef)
	}
	offset, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil || offset < 0 || offset >= int64(len(x.data)) {
		return 0, fmt.Errorf("startxref offset %s out of range", tok.Value)
	}
	return offset, nil
}

// ParseXRef parses the cross-reference section at offset, either a classic
// table or a cross-reference stream.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if err := x.parser.Seek(offset); err != nil {
		return nil, err
	}
	tok, err := x.parser.current()
	if err != nil {
		return nil, err
	}
	if x.parser.isKeyword(tok, "xref") {
		x.parser.nextToken()
		return x.parseTable()
	}
	if tok.Type == TokenInteger {
		return x.parseStream()
	}
	return nil, fmt.Errorf("no cross-reference section at offset %d", offset)
}

// parseTable reads subsections "start count" followed by count entries of
// "offset generation n|f", then the trailer.
func (x *XRefParser) parseTable() (*XRefTable, error) {
	p := x.parser
	table := &XRefTable{Entries: make(map[int]*XRefEntry)}

	for {
		tok, err := p.current()
		if err != nil {
			return nil, err
		}
		if p.isKeyword(tok, "trailer") {
			p.nextToken()
			break
		}

		first, err := p.expectInt("subsection start")
		if err != nil {
			return nil, err
		}
		count, err := p.expectInt("subsection count")
		if err != nil {
			return nil, err
		}
		if first < 0 || count < 0 {
			return nil, fmt.Errorf("invalid subsection %d %d", first, count)
		}

		for i := 0; i < count; i++ {
			entry, err := x.parseEntry()
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", first+i, err)
			}
			table.Entries[first+i] = entry
		}
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is %T, not a dictionary", obj)
	}
	table.Trailer = trailer
	return table, nil
}

// parseEntry reads one classic entry.
func (x *XRefParser) parseEntry() (*XRefEntry, error) {
	p := x.parser
	offset, err := p.expectInt("offset")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation")
	if err != nil {
		return nil, err
	}
	tok, err := p.current()
	if err != nil {
		return nil, err
	}
	var inUse bool
	switch {
	case p.isKeyword(tok, "n"):
		inUse = true
	case p.isKeyword(tok, "f"):
	default:
		return nil, fmt.Errorf("expected n or f, got %q", tok.Value)
	}
	p.nextToken()
	return &XRefEntry{Offset: int64(offset), Generation: gen, InUse: inUse}, nil
}

// parseStream reads a cross-reference stream object. Its dictionary doubles
// as the trailer.
func (x *XRefParser) parseStream() (*XRefTable, error) {
	obj, err := x.parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("cross-reference stream: %w", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %d is not a cross-reference stream", obj.Ref.Number)
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("object %d has /Type %q, not XRef", obj.Ref.Number, t)
	}

	widths, err := intArray(stream.Dict, "W")
	if err != nil || len(widths) != 3 {
		return nil, fmt.Errorf("cross-reference stream: invalid /W")
	}
	size, _ := stream.Dict.GetInt("Size")
	index := []int{0, int(size)}
	if stream.Dict.Has("Index") {
		if index, err = intArray(stream.Dict, "Index"); err != nil || len(index)%2 != 0 {
			return nil, fmt.Errorf("cross-reference stream: invalid /Index")
		}
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("cross-reference stream: %w", err)
	}

	rowSize := widths[0] + widths[1] + widths[2]
	if rowSize <= 0 {
		return nil, fmt.Errorf("cross-reference stream: empty rows")
	}

	table := &XRefTable{Entries: make(map[int]*XRefEntry), Trailer: stream.Dict}
	pos := 0
	for i := 0; i < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for n := 0; n < count; n++ {
			if pos+rowSize > len(data) {
				return nil, fmt.Errorf("cross-reference stream: data ends at entry %d", first+n)
			}
			row := data[pos : pos+rowSize]
			pos += rowSize

			kind := 1
			if widths[0] > 0 {
				kind = int(field(row[:widths[0]]))
			}
			f2 := field(row[widths[0] : widths[0]+widths[1]])
			f3 := field(row[widths[0]+widths[1]:])

			switch kind {
			case 0:
				table.Entries[first+n] = &XRefEntry{Offset: f2, Generation: int(f3)}
			case 1:
				table.Entries[first+n] = &XRefEntry{Offset: f2, Generation: int(f3), InUse: true}
			case 2:
				table.Entries[first+n] = &XRefEntry{InUse: true, Compressed: true, StreamNumber: int(f2), StreamIndex: int(f3)}
			}
		}
	}
	return table, nil
}

// ParseAllXRefs parses the newest section and every older one reachable
// through /Prev, merged so newer entries win. In a hybrid file the stream
// named by /XRefStm overrides the table that names it. The trailer is the
// newest one.
func (x *XRefParser) ParseAllXRefs() (*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	var (
		tables  []*XRefTable
		trailer Dict
	)
	seen := make(map[int64]bool)
	for {
		if seen[offset] {
			break
		}
		if len(seen) >= maxXRefChain {
			return nil, fmt.Errorf("more than %d cross-reference sections", maxXRefChain)
		}
		seen[offset] = true

		table, err := x.ParseXRef(offset)
		if err != nil {
			return nil, fmt.Errorf("cross-reference at %d: %w", offset, err)
		}

		if stm, ok := table.Trailer.GetInt("XRefStm"); ok && !seen[int64(stm)] {
			seen[int64(stm)] = true
			hybrid, err := x.ParseXRef(int64(stm))
			if err != nil {
				return nil, fmt.Errorf("cross-reference stream at %d: %w", stm, err)
			}
			tables = append(tables, hybrid)
		}
		tables = append(tables, table)
		if trailer == nil {
			trailer = table.Trailer
		}

		prev, ok := table.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}

	merged := MergeXRefTables(tables...)
	merged.Trailer = trailer
	return merged, nil
}

// MergeXRefTables merges tables given newest first. An object number takes
// its entry from the first table that lists it.
func MergeXRefTables(tables ...*XRefTable) *XRefTable {
	merged := &XRefTable{Entries: make(map[int]*XRefEntry), Trailer: make(Dict)}
	for i := len(tables) - 1; i >= 0; i-- {
		for num, entry := range tables[i].Entries {
			merged.Entries[num] = entry
		}
	}
	if len(tables) > 0 {
		merged.Trailer = tables[0].Trailer
	}
	return merged
}

func intArray(d Dict, key string) ([]int, error) {
	arr, ok := d.GetArray(key)
	if !ok {
		return nil, fmt.Errorf("/%s is not an array", key)
	}
	out := make([]int, len(arr))
	for i, v := range arr {
		n, ok := v.(Int)
		if !ok {
			return nil, fmt.Errorf("/%s[%d] is %T, not an integer", key, i, v)
		}
		out[i] = int(n)
	}
	return out, nil
}

// field reads a big-endian unsigned integer.
func field(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
