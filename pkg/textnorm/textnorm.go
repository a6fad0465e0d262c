// Package textnorm holds the string clean-ups applied to a word before it is
// used as a lookup key.
package textnorm

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	combiningAcute = '\u0301'
	combiningGrave = '\u0300'
)

// Precomposed Cyrillic letters that NFKC produces from a vowel plus a grave
// accent. Acute-accented Cyrillic vowels have no precomposed form.
var precomposedStress = map[rune]rune{
	'\u0450': 'е',
	'\u045d': 'и',
	'\u0400': 'Е',
	'\u040d': 'И',
}

func isStressMark(r rune) bool { return r == combiningAcute || r == combiningGrave }

func unstress(r rune) rune {
	if base, ok := precomposedStress[r]; ok {
		return base
	}
	return r
}

// The trailing NFKC keeps the output normalized when a removed mark sat
// between a base letter and another combining mark.
func removeAccentsChain() transform.Transformer {
	return transform.Chain(
		norm.NFKC,
		runes.Remove(runes.Predicate(isStressMark)),
		runes.Map(unstress),
		norm.NFKC,
	)
}

// RemoveAccents strips the stress marks used in Russian learning material
// (acute and grave over а е и о у ы э ю я). It is idempotent.
func RemoveAccents(s string) string {
	out, _, err := transform.String(removeAccentsChain(), s)
	if err != nil {
		return s
	}
	return out
}

var decorations = strings.NewReplacer(
	"«", "",
	"»", "",
	"…", "",
	",", "",
	"(", "",
	")", "",
	"[", "",
	"]", "",
)

// StripDecorations removes the quotation, bracket and ellipsis characters that
// cling to words copied out of running text.
func StripDecorations(s string) string {
	return decorations.Replace(s)
}
