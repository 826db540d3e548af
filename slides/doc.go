// Package slides renders the SlideRx condensed deck: three slides (problem,
// solution, ask) laid out on landscape US Letter pages, one slide per page.
//
// # Rendering
//
//	deck := slides.Deck{
//	    Problem:  slides.SlideContent{Title: "THE PROBLEM", Visual: "...", Sentence: "..."},
//	    Solution: slides.SlideContent{Title: "THE SOLUTION", Visual: "...", Sentence: "..."},
//	    Ask:      slides.SlideContent{Title: "THE ASK", Visual: "...", Sentence: "..."},
//	}
//	doc, err := slides.Render(deck)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("deck.pdf", doc.Bytes(), 0o644)
//
// Every page carries the title, a "VISUAL:" label above an outlined box
// holding the word-wrapped visual description, the key sentence centred in
// blue and a "Slide N of 3" footer. All positions, fonts and colours come
// from [Style]; [DefaultStyle] is the SlideRx template.
//
// # Overflow
//
// Layout never fails because text is too long. The visual is wrapped at
// [DefaultWrapWidth] characters and cut to [DefaultMaxLines] lines, long
// words and wide sentences are drawn as they are, and each of these is
// reported by [Document.Warnings]. Only drawing errors, such as characters
// outside the WinAnsi character set, fail a render with [ErrRenderFailed].
//
// # Requests
//
// [DecodeJSON] and [DecodeYAML] read the request shape used by the HTTP
// service and the CLI, and [Filename] names the resulting download.
package slides
