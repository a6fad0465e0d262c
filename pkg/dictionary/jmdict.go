package dictionary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/format"
)

// JMdictSourceName is the catalog name of the imported JMdict source.
const JMdictSourceName = "JMdict"

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	ID    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// LoadJMdict decodes a jmdict-simplified document, either the release
// object {"words": [...]} or a bare array of entries.
func LoadJMdict(r io.Reader) ([]JMdictEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Words []JMdictEntry `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Words) > 0 {
		return wrapped.Words, nil
	}

	var entries []JMdictEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	return entries, nil
}

// LoadJMdictSimplified reads a jmdict-simplified JSON file.
func LoadJMdictSimplified(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJMdict(f)
}

// JMdictEntries flattens JMdict into keyed definitions. Every kanji and kana
// writing becomes a key; katakana keys are also reachable in hiragana.
// Entries sharing a key are merged in entry ID order.
func JMdictEntries(entries []JMdictEntry) []domain.Entry {
	index := make(map[string][]JMdictEntry)
	add := func(key string, e JMdictEntry) {
		if key == "" {
			return
		}
		for _, existing := range index[key] {
			if existing.ID == e.ID {
				return
			}
		}
		index[key] = append(index[key], e)
	}
	for _, e := range entries {
		for _, k := range e.Kanji {
			add(k.Text, e)
		}
		for _, k := range e.Kana {
			add(k.Text, e)
			add(ToHiragana(k.Text), e)
		}
	}

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.Entry, 0, len(keys))
	for _, k := range keys {
		matches := index[k]
		sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
		out = append(out, domain.Entry{Word: k, Value: FormatDefinitions(matches)})
	}
	return out
}

// FormatDefinitions renders the senses of entries as definition markup.
// Consecutive senses with the same parts of speech share a group.
func FormatDefinitions(entries []JMdictEntry) string {
	var defs []domain.DefinitionEntry
	for _, e := range entries {
		for _, s := range e.Sense {
			var glosses []string
			for _, g := range s.Gloss {
				if g.Lang == "" || g.Lang == "eng" {
					glosses = append(glosses, g.Text)
				}
			}
			if len(glosses) == 0 {
				continue
			}
			pos := strings.Join(s.PartOfSpeech, ", ")
			sense := strings.Join(glosses, "; ")
			if n := len(defs); n > 0 && defs[n-1].PartOfSpeech == pos {
				defs[n-1].Senses = append(defs[n-1].Senses, sense)
				continue
			}
			defs = append(defs, domain.DefinitionEntry{PartOfSpeech: pos, Senses: []string{sense}})
		}
	}
	return format.Definitions(defs)
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
