package slides

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Request is a render request: the deck plus the caller's project id, which
// only names the output file.
type Request struct {
	ProjectID string
	Deck      Deck
}

// wireSlide uses pointers so an absent field can be told apart from an
// empty one.
type wireSlide struct {
	Title    *string `json:"title" yaml:"title"`
	Visual   *string `json:"visual" yaml:"visual"`
	Sentence *string `json:"sentence" yaml:"sentence"`
}

type wireRequest struct {
	ProjectID *string    `json:"projectId" yaml:"projectId"`
	Slide1    *wireSlide `json:"slide1" yaml:"slide1"`
	Slide2    *wireSlide `json:"slide2" yaml:"slide2"`
	Slide3    *wireSlide `json:"slide3" yaml:"slide3"`
}

// DecodeJSON reads a request body of the form
//
//	{"projectId": "...", "slide1": {"title": ..., "visual": ..., "sentence": ...}, "slide2": ..., "slide3": ...}
//
// Every field is required; empty strings are allowed. Shape errors wrap
// ErrInvalidDeck along with the underlying decoding error.
func DecodeJSON(r io.Reader) (Request, error) {
	var w wireRequest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	if dec.More() {
		return Request{}, fmt.Errorf("%w: trailing data after request", ErrInvalidDeck)
	}
	return w.request()
}

// DecodeYAML reads the same request shape as DecodeJSON from YAML.
func DecodeYAML(r io.Reader) (Request, error) {
	var w wireRequest
	if err := yaml.NewDecoder(r).Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return Request{}, fmt.Errorf("%w: empty document", ErrInvalidDeck)
		}
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	return w.request()
}

func (w wireRequest) request() (Request, error) {
	var missing []string
	if w.ProjectID == nil {
		missing = append(missing, "projectId")
	}

	wires := [SlideCount]*wireSlide{w.Slide1, w.Slide2, w.Slide3}
	var slides [SlideCount]SlideContent
	for i, ws := range wires {
		prefix := fmt.Sprintf("slide%d", i+1)
		if ws == nil {
			missing = append(missing, prefix)
			continue
		}
		if ws.Title == nil {
			missing = append(missing, prefix+".title")
		}
		if ws.Visual == nil {
			missing = append(missing, prefix+".visual")
		}
		if ws.Sentence == nil {
			missing = append(missing, prefix+".sentence")
		}
		if len(missing) == 0 {
			slides[i] = SlideContent{Title: *ws.Title, Visual: *ws.Visual, Sentence: *ws.Sentence}
		}
	}

	if len(missing) > 0 {
		return Request{}, fmt.Errorf("%w: missing %s", ErrInvalidDeck, strings.Join(missing, ", "))
	}

	deck, err := DeckFromSlides(slides[:])
	if err != nil {
		return Request{}, err
	}
	return Request{ProjectID: *w.ProjectID, Deck: deck}, nil
}

// Filename returns the download name for a project's document. Characters
// other than ASCII letters, digits, '.', '_' and '-' are replaced with '_'.
func Filename(projectID string) string {
	if projectID == "" {
		return "SlideRx_Condensed.pdf"
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, projectID)
	return "SlideRx_" + clean + "_Condensed.pdf"
}
