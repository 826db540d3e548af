package pages

import (
	"errors"
	"fmt"

	"github.com/sliderx/slidepdf/core"
)

// maxTreeDepth bounds page tree nesting so a Kids cycle cannot recurse
// forever.
const maxTreeDepth = 64

// ErrPageRange is returned for a page index outside the document.
var ErrPageRange = errors.New("page index out of range")

// inheritable lists the page attributes a Pages node passes to its kids.
var inheritable = []string{"Resources", "MediaBox", "CropBox", "Rotate"}

// ObjectResolver resolves indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{dict: dict, resolver: resolver}
}

// Pages returns the page tree root
func (c *Catalog) Pages() (core.Dict, error) {
	pagesObj, err := c.resolver.Resolve(c.dict.Get("Pages"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", pagesObj)
	}
	return pagesDict, nil
}

// PageTree represents the PDF page tree
type PageTree struct {
	root     core.Dict
	resolver ObjectResolver
	pages    []*Page // flattened in document order
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root core.Dict, resolver ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: resolver}
}

// Count returns the number of leaf pages. The root's /Count is not trusted.
func (t *PageTree) Count() (int, error) {
	pages, err := t.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPageRange, index, len(pages))
	}
	return pages[index], nil
}

// Pages returns all pages in document order
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages == nil {
		pages := make([]*Page, 0)
		if err := t.traverse(t.root, core.Dict{}, 0, &pages); err != nil {
			return nil, fmt.Errorf("failed to traverse page tree: %w", err)
		}
		t.pages = pages
	}
	return t.pages, nil
}

// traverse walks a node, collecting leaves. inherited holds the attributes
// passed down from ancestors.
func (t *PageTree) traverse(node core.Dict, inherited core.Dict, depth int, out *[]*Page) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}

	attrs := inherited.Clone()
	for _, key := range inheritable {
		if v, ok := node[key]; ok {
			attrs[key] = v
		}
	}

	// Some producers omit /Type on leaves; a node without /Kids is a page.
	typeName, _ := node.GetName("Type")
	if typeName == "Page" || (typeName != "Pages" && !node.Has("Kids")) {
		*out = append(*out, newPage(node, attrs, t.resolver))
		return nil
	}

	kidsObj, err := t.resolver.Resolve(node.Get("Kids"))
	if err != nil {
		return fmt.Errorf("failed to resolve /Kids: %w", err)
	}
	kids, ok := kidsObj.(core.Array)
	if !ok {
		return fmt.Errorf("invalid /Kids type: %T", kidsObj)
	}

	for i, kid := range kids {
		resolved, err := t.resolver.Resolve(kid)
		if err != nil {
			return fmt.Errorf("failed to resolve kid %d: %w", i, err)
		}
		kidDict, ok := resolved.(core.Dict)
		if !ok {
			return fmt.Errorf("invalid kid type: %T", resolved)
		}
		if err := t.traverse(kidDict, attrs, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// Page represents a single PDF page
type Page struct {
	dict     core.Dict
	attrs    core.Dict // own and inherited attributes
	resolver ObjectResolver
}

func newPage(dict, attrs core.Dict, resolver ObjectResolver) *Page {
	return &Page{dict: dict, attrs: attrs, resolver: resolver}
}

// Dict returns the page dictionary.
func (p *Page) Dict() core.Dict {
	return p.dict
}

// MediaBox returns the page media box [x1 y1 x2 y2]. It is inheritable.
func (p *Page) MediaBox() ([]float64, error) {
	boxObj, err := p.resolver.Resolve(p.attrs.Get("MediaBox"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve MediaBox: %w", err)
	}
	boxArr, ok := boxObj.(core.Array)
	if !ok || len(boxArr) != 4 {
		return nil, fmt.Errorf("invalid MediaBox: %v", boxObj)
	}

	box := make([]float64, 4)
	for i, elem := range boxArr {
		switch v := elem.(type) {
		case core.Int:
			box[i] = float64(v)
		case core.Real:
			box[i] = float64(v)
		default:
			return nil, fmt.Errorf("invalid MediaBox element type: %T", elem)
		}
	}
	return box, nil
}

// Resources returns the page resources dictionary. It is inheritable; a
// page without resources gets an empty dictionary.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.attrs.Get("Resources")
	if obj == nil {
		return core.Dict{}, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid Resources type: %T", resolved)
	}
	return dict, nil
}

// Contents returns the page content streams in order. A page without
// contents has none.
func (p *Page) Contents() ([]*core.Stream, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	var parts core.Array
	switch v := resolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		parts = v
	case core.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", resolved)
	}

	streams := make([]*core.Stream, 0, len(parts))
	for i, part := range parts {
		r, err := p.resolver.Resolve(part)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
		}
		s, ok := r.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("contents[%d] is %T, not a stream", i, r)
		}
		streams = append(streams, s)
	}
	return streams, nil
}
