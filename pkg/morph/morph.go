// Package morph holds the morphological analyzers used for lemmatization.
package morph

// Parse is one grammatical reading of a word form.
type Parse struct {
	NormalForm string // dictionary form
	Tag        string
	Score      float64
}

// Analyzer produces ranked parses of a word form, best first. Implementations
// are read-only after construction and safe for concurrent use.
type Analyzer interface {
	Parse(word string) []Parse
}

// Best returns the normal form of the highest-ranked parse, or word itself
// when the analyzer has nothing to offer.
func Best(a Analyzer, word string) string {
	parses := a.Parse(word)
	if len(parses) == 0 || parses[0].NormalForm == "" {
		return word
	}
	return parses[0].NormalForm
}
