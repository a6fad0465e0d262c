// Package lang maps human-readable language names to ISO codes and back.
package lang

import (
	"fmt"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// Entry pairs a display name with its ISO code.
type Entry struct {
	Name string
	Code string
}

// Registry is a bijective name/code table. It is immutable after New and safe
// for concurrent use.
type Registry struct {
	entries    []Entry
	nameToCode map[string]string
	codeToName map[string]string
}

// New builds a registry and rejects duplicate names, duplicate codes and empty
// values, so that both directions of the mapping stay total.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries:    make([]Entry, 0, len(entries)),
		nameToCode: make(map[string]string, len(entries)),
		codeToName: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" || e.Code == "" {
			return nil, fmt.Errorf("lang: empty name or code in entry %+v", e)
		}
		if prev, ok := r.nameToCode[e.Name]; ok {
			return nil, fmt.Errorf("lang: duplicate name %q (codes %q and %q)", e.Name, prev, e.Code)
		}
		if prev, ok := r.codeToName[e.Code]; ok {
			return nil, fmt.Errorf("lang: duplicate code %q (names %q and %q)", e.Code, prev, e.Name)
		}
		r.nameToCode[e.Name] = e.Code
		r.codeToName[e.Code] = e.Name
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// DefaultEntries is the fixed catalog of supported target languages.
var DefaultEntries = []Entry{
	{"English", "en"},
	{"Chinese", "zh"},
	{"Italian", "it"},
	{"Finnish", "fi"},
	{"Japanese", "ja"},
	{"Spanish", "es"},
	{"French", "fr"},
	{"German", "de"},
	{"Latin", "la"},
	{"Polish", "pl"},
	{"Portuguese", "pt"},
	{"Russian", "ru"},
	{"Serbo-Croatian", "sh"},
	{"Dutch", "nl"},
	{"Romanian", "ro"},
	{"Hindi", "hi"},
	{"Korean", "ko"},
	{"Arabic", "ar"},
	{"Turkish", "tr"},
}

// Default returns the registry over DefaultEntries.
func Default() *Registry {
	r, err := New(DefaultEntries)
	if err != nil {
		panic(err)
	}
	return r
}

// NameToCode returns the ISO code for a display name.
func (r *Registry) NameToCode(name string) (string, error) {
	code, ok := r.nameToCode[name]
	if !ok {
		return "", fmt.Errorf("lang: name %q: %w", name, domain.ErrUnknownLanguage)
	}
	return code, nil
}

// CodeToName returns the display name for an ISO code.
func (r *Registry) CodeToName(code string) (string, error) {
	name, ok := r.codeToName[code]
	if !ok {
		return "", fmt.Errorf("lang: code %q: %w", code, domain.ErrUnknownLanguage)
	}
	return name, nil
}

// Entries returns a copy of the catalog in construction order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the display names in catalog order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Name)
	}
	return out
}

// Codes returns the ISO codes in catalog order.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Code)
	}
	return out
}
