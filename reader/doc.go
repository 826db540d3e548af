// Package reader opens PDF files and walks their object graph.
//
// A [Reader] holds the whole file in memory. It locates the cross-reference
// data from the end of the file, following /Prev chains, cross-reference
// streams and hybrid /XRefStm sections, and loads objects on demand,
// including objects packed in object streams:
//
//	r, err := reader.New(data)
//	if err != nil {
//		return err
//	}
//	pages, err := r.Pages()
//	if err != nil {
//		return err
//	}
//	for _, p := range pages {
//		s, err := r.ExtractText(p)
//		...
//	}
//
// Encrypted files are rejected with [ErrEncrypted].
package reader
