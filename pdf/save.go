package pdf

import (
	"fmt"

	"github.com/sliderx/slidepdf/contentstream"
	"github.com/sliderx/slidepdf/core"
)

// Version is the PDF version written in the file header.
const Version = "1.4"

// Save finalizes the canvas and returns the complete document. A trailing
// page with nothing drawn on it is dropped unless it is the only page.
//
// Save either returns a whole document or an error; after the first call the
// canvas is closed and further calls return ErrCanvasClosed.
func (c *Canvas) Save() ([]byte, error) {
	if !c.ready() {
		return nil, c.err
	}
	c.saved = true

	pages := c.pages
	if c.page.Len() > 0 || len(pages) == 0 {
		pages = append(pages, c.page)
	}

	data, err := c.assemble(pages)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	return data, nil
}

// assemble writes the object graph. Numbering is fixed: catalog, page tree,
// fonts in first-use order, then each page followed by its content stream,
// and the info dictionary last.
func (c *Canvas) assemble(pages []*contentstream.Builder) ([]byte, error) {
	w := core.NewWriter(Version)

	catalogRef := w.Allocate()
	pagesRef := w.Allocate()

	fontDict := make(core.Dict, len(c.fontOrder))
	for _, res := range c.fontOrder {
		ref, err := w.Add(res.font.Dict())
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", res.font.BaseFont, err)
		}
		fontDict[res.name] = ref
	}

	resources := core.Dict{
		"Font":    fontDict,
		"ProcSet": core.Array{core.Name("PDF"), core.Name("Text")},
	}
	mediaBox := core.Array{
		core.Int(0), core.Int(0),
		core.Real(c.size.Width), core.Real(c.size.Height),
	}

	kids := make(core.Array, 0, len(pages))
	for i, page := range pages {
		pageRef := w.Allocate()
		contentRef := w.Allocate()

		content, err := page.Bytes()
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", i+1, err)
		}
		stream, err := core.NewFlateStream(nil, content)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", i+1, err)
		}

		pageDict := core.Dict{
			"Type":      core.Name("Page"),
			"Parent":    pagesRef,
			"MediaBox":  mediaBox,
			"Resources": resources,
			"Contents":  contentRef,
		}
		if err := w.Write(pageRef, pageDict); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		if err := w.Write(contentRef, stream); err != nil {
			return nil, fmt.Errorf("page %d content: %w", i+1, err)
		}
		kids = append(kids, pageRef)
	}

	if err := w.Write(pagesRef, core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  kids,
		"Count": core.Int(len(kids)),
	}); err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}

	if err := w.Write(catalogRef, core.Dict{
		"Type":  core.Name("Catalog"),
		"Pages": pagesRef,
	}); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	info := core.Dict{"Producer": core.String(c.producer)}
	if c.title != "" {
		title, err := encodeInfoString(c.title)
		if err != nil {
			return nil, fmt.Errorf("title: %w", err)
		}
		info["Title"] = title
	}
	infoRef, err := w.Add(info)
	if err != nil {
		return nil, fmt.Errorf("info: %w", err)
	}

	return w.Finish(core.Dict{
		"Root": catalogRef,
		"Info": infoRef,
	})
}
