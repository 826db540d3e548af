package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sliderx/slidepdf/core"
	"github.com/sliderx/slidepdf/pages"
	"github.com/sliderx/slidepdf/text"
)

// headerWindow is how far into the file the %PDF- header may start.
const headerWindow = 1024

// maxRefDepth bounds chains of references to references.
const maxRefDepth = 32

var (
	// ErrNotPDF is returned when no %PDF-x.y header is found.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrEncrypted is returned for files with an /Encrypt dictionary.
	ErrEncrypted = errors.New("encrypted PDF files are not supported")
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.4")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader reads objects from a complete PDF file held in memory.
//
// A Reader caches parsed objects and is not safe for concurrent use.
type Reader struct {
	data      []byte
	xrefTable *core.XRefTable
	trailer   core.Dict
	version   PDFVersion
	objCache  map[int]core.Object
	objStms   map[int]*core.ObjectStream
	loading   map[int]bool // objects being parsed, to break cycles
	pageTree  *pages.PageTree
}

// Ensure Reader implements pages.ObjectResolver
var _ pages.ObjectResolver = (*Reader)(nil)

// New creates a reader over the bytes of a PDF file.
func New(data []byte) (*Reader, error) {
	version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	table, err := core.NewXRefParser(data).ParseAllXRefs()
	if err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}
	if table.Trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}

	return &Reader{
		data:      data,
		xrefTable: table,
		trailer:   table.Trailer,
		version:   version,
		objCache:  make(map[int]core.Object),
		objStms:   make(map[int]*core.ObjectStream),
		loading:   make(map[int]bool),
	}, nil
}

// Open reads a PDF file from disk.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return New(data)
}

// parseHeader finds %PDF-x.y near the start of the file.
func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	i := bytes.Index(window, []byte("%PDF-"))
	if i < 0 {
		return PDFVersion{}, ErrNotPDF
	}

	rest := data[i+len("%PDF-"):]
	end := 0
	for end < len(rest) && end < 8 && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	majorStr, minorStr, ok := strings.Cut(string(rest[:end]), ".")
	major, errMajor := strconv.Atoi(majorStr)
	minor, errMinor := strconv.Atoi(minorStr)
	if !ok || errMajor != nil || errMinor != nil {
		return PDFVersion{}, fmt.Errorf("%w: invalid version %q", ErrNotPDF, rest[:end])
	}
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// XRefTable returns the merged cross-reference table
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xrefTable
}

// GetObject loads an object by its number. Free objects read as null.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xrefTable.Get(objNum)
	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}
	if !entry.InUse {
		return core.Null{}, nil
	}
	if r.loading[objNum] {
		return nil, fmt.Errorf("object %d refers to itself", objNum)
	}
	r.loading[objNum] = true
	defer delete(r.loading, objNum)

	var (
		obj core.Object
		err error
	)
	if entry.Compressed {
		obj, err = r.compressedObject(objNum, entry)
	} else {
		obj, err = r.directObject(objNum, entry)
	}
	if err != nil {
		return nil, err
	}

	r.objCache[objNum] = obj
	return obj, nil
}

func (r *Reader) directObject(objNum int, entry *core.XRefEntry) (core.Object, error) {
	if entry.Offset < 0 || entry.Offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d: offset %d outside file", objNum, entry.Offset)
	}

	parser := core.NewParser(r.data)
	parser.SetReferenceResolver(r)
	if err := parser.Seek(entry.Offset); err != nil {
		return nil, fmt.Errorf("failed to seek to object %d: %w", objNum, err)
	}
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

func (r *Reader) compressedObject(objNum int, entry *core.XRefEntry) (core.Object, error) {
	stm, ok := r.objStms[entry.StreamNumber]
	if !ok {
		obj, err := r.GetObject(entry.StreamNumber)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamNumber, err)
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("object %d is %T, not an object stream", entry.StreamNumber, obj)
		}
		if stm, err = core.NewObjectStream(stream); err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamNumber, err)
		}
		r.objStms[entry.StreamNumber] = stm
	}

	num, obj, err := stm.GetObjectByIndex(entry.StreamIndex)
	if err != nil || num != objNum {
		// The index is a hint; fall back to the header.
		obj, err = stm.GetObjectByNumber(objNum)
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves an object if it's an indirect reference, otherwise returns it as-is
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	for depth := 0; depth < maxRefDepth; depth++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		var err error
		if obj, err = r.ResolveReference(ref); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("reference chain longer than %d", maxRefDepth)
}

// Catalog returns the document catalog (root object)
func (r *Reader) Catalog() (core.Dict, error) {
	rootRef := r.trailer.Get("Root")
	if rootRef == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}
	obj, err := r.Resolve(rootRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}
	return catalog, nil
}

// Info returns the document info dictionary, or nil when there is none.
func (r *Reader) Info() (core.Dict, error) {
	infoRef := r.trailer.Get("Info")
	if infoRef == nil {
		return nil, nil
	}
	obj, err := r.Resolve(infoRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve info: %w", err)
	}
	info, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("info is not a dictionary: %T", obj)
	}
	return info, nil
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	return r.pageTree.Count()
}

// Page returns the page at the given index (0-based)
func (r *Reader) Page(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.GetPage(index)
}

// Pages returns every page in document order.
func (r *Reader) Pages() ([]*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.Pages()
}

func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}
	catalog, err := r.Catalog()
	if err != nil {
		return err
	}
	root, err := pages.NewCatalog(catalog, r).Pages()
	if err != nil {
		return err
	}
	r.pageTree = pages.NewPageTree(root, r)
	return nil
}

// PageContent returns the decoded content streams of a page, joined by
// newlines so operators cannot run together.
func (r *Reader) PageContent(page *pages.Page) ([]byte, error) {
	streams, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}
	var all []byte
	for i, s := range streams {
		data, err := s.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream %d: %w", i, err)
		}
		if i > 0 {
			all = append(all, '\n')
		}
		all = append(all, data...)
	}
	return all, nil
}

// ExtractTextFragments extracts positioned text from a page
func (r *Reader) ExtractTextFragments(page *pages.Page) ([]text.TextFragment, error) {
	ex, err := r.extract(page)
	if err != nil {
		return nil, err
	}
	return ex.GetFragments(), nil
}

// ExtractText extracts the text of a page as lines in drawing order.
func (r *Reader) ExtractText(page *pages.Page) (string, error) {
	ex, err := r.extract(page)
	if err != nil {
		return "", err
	}
	return ex.GetText(), nil
}

// PageTexts extracts the text of every page in document order.
func (r *Reader) PageTexts() ([]string, error) {
	all, err := r.Pages()
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(all))
	for i, page := range all {
		if texts[i], err = r.ExtractText(page); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	return texts, nil
}

func (r *Reader) extract(page *pages.Page) (*text.Extractor, error) {
	data, err := r.PageContent(page)
	if err != nil {
		return nil, err
	}
	ex := text.NewExtractor()
	if err := ex.RegisterFontsFromPage(page, r); err != nil {
		return nil, fmt.Errorf("failed to register fonts: %w", err)
	}
	if len(data) == 0 {
		return ex, nil
	}
	if _, err := ex.ExtractFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	return ex, nil
}
