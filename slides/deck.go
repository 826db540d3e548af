package slides

import (
	"errors"
	"fmt"
)

// ErrInvalidDeck is returned when input does not describe exactly three
// complete slides.
var ErrInvalidDeck = errors.New("invalid deck")

// SlideCount is the number of slides in every deck.
const SlideCount = 3

// SlideContent is the text of one slide.
type SlideContent struct {
	Title    string `json:"title" yaml:"title"`
	Visual   string `json:"visual" yaml:"visual"`
	Sentence string `json:"sentence" yaml:"sentence"`
}

// Role is the part a slide plays in the deck. It is fixed by position.
type Role int

const (
	RoleProblem Role = iota
	RoleSolution
	RoleAsk
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleProblem:
		return "problem"
	case RoleSolution:
		return "solution"
	case RoleAsk:
		return "ask"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Deck holds the three slides of one document in render order.
type Deck struct {
	Problem  SlideContent
	Solution SlideContent
	Ask      SlideContent
}

// Slide returns the slide bound to role. It panics on an unknown role.
func (d Deck) Slide(r Role) SlideContent {
	switch r {
	case RoleProblem:
		return d.Problem
	case RoleSolution:
		return d.Solution
	case RoleAsk:
		return d.Ask
	}
	panic(fmt.Sprintf("slides: unknown role %d", int(r)))
}

// Slides returns the slides in render order.
func (d Deck) Slides() [SlideCount]SlideContent {
	return [SlideCount]SlideContent{d.Problem, d.Solution, d.Ask}
}

// DeckFromSlides binds a sequence of slides to roles by position.
func DeckFromSlides(s []SlideContent) (Deck, error) {
	if len(s) != SlideCount {
		return Deck{}, fmt.Errorf("%w: got %d slides, want %d", ErrInvalidDeck, len(s), SlideCount)
	}
	return Deck{Problem: s[0], Solution: s[1], Ask: s[2]}, nil
}
