package lemma

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/japaniel/wordlookup/pkg/resource"
)

// ReadList parses a lemma list. Rows are "form<TAB>lemma", or
// "lemma<TAB>form" when lemmaFirst is set, which is the layout of the
// lemmatization-lists corpus. The first lemma seen for a form wins and rows
// whose form is its own lemma are dropped.
func ReadList(r io.Reader, name string, lemmaFirst bool) (Table, error) {
	t := make(Table)
	err := resource.ScanTSV(r, name, 2, func(f []string) error {
		form, lemma := f[0], f[1]
		if lemmaFirst {
			form, lemma = lemma, form
		}
		if form == "" || lemma == "" {
			return fmt.Errorf("empty column")
		}
		if form == lemma {
			return nil
		}
		if _, ok := t[form]; !ok {
			t[form] = lemma
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lemma: read list: %w", err)
	}
	return t, nil
}

// WriteTable stores t as the table of lang under dir, where FSLoader finds
// it, and returns the file path.
func WriteTable(dir, lang string, t Table) (string, error) {
	forms := make([]string, 0, len(t))
	for form := range t {
		forms = append(forms, form)
	}
	sort.Strings(forms)

	rows := make([][]string, len(forms))
	for i, form := range forms {
		rows[i] = []string{form, t[form]}
	}
	path := filepath.Join(dir, TableFile(lang))
	if err := resource.WriteTSV(path, rows); err != nil {
		return "", fmt.Errorf("lemma: write table %s: %w", lang, err)
	}
	return path, nil
}
