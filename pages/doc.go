// Package pages walks the page tree of a parsed document.
//
// A [PageTree] flattens nested Pages nodes into document order. Resources,
// MediaBox, CropBox and Rotate are inherited from ancestors, so a [Page]
// answers for attributes it does not carry itself. Objects are resolved
// through an [ObjectResolver], normally a reader.Reader.
package pages
