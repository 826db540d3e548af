package slides

import "github.com/sliderx/slidepdf/model"

// TextStyle is the font, size and fill colour of one kind of text.
type TextStyle struct {
	Font  string
	Size  float64
	Color model.Color
}

// Style holds every constant of the slide template. Offsets are measured
// down from the top edge of the page unless noted. A Style is a plain value;
// changing a copy never affects a render in progress.
type Style struct {
	Page model.Size

	// Left edge of the title, the label and the visual box
	Margin float64

	Title       TextStyle
	TitleOffset float64

	Label       string
	LabelStyle  TextStyle
	LabelOffset float64

	// The visual box spans the page width less Margin on each side.
	BoxStroke    model.Color
	BoxTopOffset float64
	BoxHeight    float64

	Body         TextStyle
	BodyInset    float64 // from Margin
	BodyOffset   float64
	LeadingRatio float64
	WrapWidth    int
	MaxLines     int

	Sentence       TextStyle
	SentenceOffset float64

	Footer TextStyle
	// Footer text ends FooterMargin from the right edge and sits
	// FooterBaseline above the bottom edge.
	FooterMargin   float64
	FooterBaseline float64

	// DocumentTitle is recorded in the document information when set.
	DocumentTitle string
}

// DefaultStyle returns the SlideRx template on landscape US Letter.
func DefaultStyle() Style {
	return Style{
		Page:   model.Letter.Landscape(),
		Margin: 50,

		Title:       TextStyle{Font: "Helvetica-Bold", Size: 28, Color: model.Black},
		TitleOffset: 80,

		Label:       "VISUAL:",
		LabelStyle:  TextStyle{Font: "Helvetica", Size: 12, Color: model.Gray(0.4)},
		LabelOffset: 180,

		BoxStroke:    model.Gray(0.8),
		BoxTopOffset: 200,
		BoxHeight:    200,

		Body:         TextStyle{Font: "Helvetica", Size: 14, Color: model.Black},
		BodyInset:    20,
		BodyOffset:   220,
		LeadingRatio: 1.2,
		WrapWidth:    DefaultWrapWidth,
		MaxLines:     DefaultMaxLines,

		Sentence:       TextStyle{Font: "Helvetica-Bold", Size: 20, Color: model.RGB(0.15, 0.39, 0.92)},
		SentenceOffset: 450,

		Footer:         TextStyle{Font: "Helvetica", Size: 10, Color: model.Gray(0.6)},
		FooterMargin:   50,
		FooterBaseline: 50,
	}
}

// geometry is the page layout in PDF coordinates, derived from a Style.
type geometry struct {
	title    model.Point
	label    model.Point
	box      model.BBox
	body     model.Point
	sentence float64 // baseline
	footer   model.Point
}

func (s Style) geometry() geometry {
	w, h := s.Page.Width, s.Page.Height
	return geometry{
		title: model.Point{X: s.Margin, Y: h - s.TitleOffset},
		label: model.Point{X: s.Margin, Y: h - s.LabelOffset},
		box: model.NewBBox(
			s.Margin,
			h-s.BoxTopOffset-s.BoxHeight,
			w-2*s.Margin,
			s.BoxHeight,
		),
		body:     model.Point{X: s.Margin + s.BodyInset, Y: h - s.BodyOffset},
		sentence: h - s.SentenceOffset,
		footer:   model.Point{X: w - s.FooterMargin, Y: s.FooterBaseline},
	}
}
