package core

import (
	"fmt"
	"io"
)

// XRefEntry represents a single cross-reference table entry
type XRefEntry struct {
	Offset     int64 // Byte offset in file (for in-use objects) or next free object number (for free objects)
	Generation int   // Generation number
	InUse      bool  // true if object is in use, false if free

	// Compressed entries live inside an object stream and have no offset.
	Compressed   bool
	StreamNumber int // Object number of the containing object stream
	StreamIndex  int // Index of the object within that stream
}

// XRefTable represents a PDF cross-reference table
type XRefTable struct {
	Entries map[int]*XRefEntry // Map from object number to XRef entry
	Trailer Dict               // Trailer dictionary
}

// NewXRefTable creates a new XRef table holding only the head of the free
// list (object 0, generation 65535).
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: map[int]*XRefEntry{
			0: {Offset: 0, Generation: 65535, InUse: false},
		},
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or updates an XRef entry
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// WriteTo writes the table as a single subsection covering objects
// 0..size-1. Every entry is exactly 20 bytes. Missing entries are written as
// free.
func (x *XRefTable) WriteTo(w io.Writer, size int) (int64, error) {
	var total int64

	n, err := fmt.Fprintf(w, "xref\n0 %d\n", size)
	total += int64(n)
	if err != nil {
		return total, err
	}

	for num := 0; num < size; num++ {
		entry, ok := x.Entries[num]
		if !ok {
			entry = &XRefEntry{Generation: 65535}
		}

		kind := 'f'
		if entry.InUse {
			kind = 'n'
		}

		n, err = fmt.Fprintf(w, "%010d %05d %c \n", entry.Offset, entry.Generation, kind)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
