// Package format renders structured definitions as the lightweight HTML
// markup used on flashcards.
package format

import (
	"strconv"
	"strings"

	"github.com/japaniel/wordlookup/pkg/domain"
)

const lineBreak = "<br>"

// Definitions renders entries as lines joined by <br>. A non-empty part of
// speech becomes an <i>pos</i> line, followed by one "n. sense" line per
// sense, numbered from 1 within the entry.
func Definitions(entries []domain.DefinitionEntry) string {
	var lines []string
	for _, e := range entries {
		if e.PartOfSpeech != "" {
			lines = append(lines, "<i>"+e.PartOfSpeech+"</i>")
		}
		for i, s := range e.Senses {
			lines = append(lines, strconv.Itoa(i+1)+". "+s)
		}
	}
	return strings.Join(lines, lineBreak)
}
