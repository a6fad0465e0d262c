package lemma

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/japaniel/wordlookup/pkg/resource"
)

// TableLanguages lists the languages that have a lemma table.
var TableLanguages = []string{
	"bg", "ca", "cy", "da", "de", "en", "es", "et", "fa", "fi", "fr",
	"ga", "gd", "gl", "gv", "hu", "id", "it", "ka", "la", "lb", "lt",
	"lv", "nl", "pt", "ro", "ru", "sk", "sl", "sv", "tr", "uk", "ur",
}

// Table maps inflected forms to lemmas for one language.
type Table map[string]string

// Lemmatize returns the lemma of word, trying the form as written and then
// lowercased. Unknown forms are returned unchanged.
func (t Table) Lemmatize(word string) string {
	if l, ok := t[word]; ok {
		return l
	}
	if l, ok := t[strings.ToLower(word)]; ok {
		return l
	}
	return word
}

// TableLoader produces the lemma table for a language.
type TableLoader interface {
	Load(lang string) (Table, error)
}

// FSLoader reads "<lang>.tsv.gz" files of "form<TAB>lemma" rows.
type FSLoader struct {
	FS fs.FS
}

// TableFile is the file name of a language's table.
func TableFile(lang string) string { return lang + ".tsv.gz" }

// Load implements TableLoader.
func (l FSLoader) Load(lang string) (Table, error) {
	t := make(Table)
	err := resource.ReadTSV(l.FS, TableFile(lang), 2, func(f []string) error {
		t[f[0]] = f[1]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lemma: load table %s: %w", lang, err)
	}
	return t, nil
}
