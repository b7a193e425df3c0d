package model

// OriginManual marks documents typed in by hand rather than extracted from a source.
const OriginManual = "manual"

// Document is one entry of a reference corpus.
type Document struct {
	Origin string // filename, URL, object key, or OriginManual
	Text   string
}

// Texts returns the text of each document, in order.
func Texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}
