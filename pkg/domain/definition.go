package domain

// DefinitionEntry is one part-of-speech group of a dictionary answer.
// Senses keep the order the provider returned them in.
type DefinitionEntry struct {
	PartOfSpeech string   // empty when the provider gave none
	Senses       []string
}

// LookupResult is the uniform answer of every provider.
type LookupResult struct {
	Word        string // lookup key after normalization and lemmatization
	Definitions []DefinitionEntry
	// Definition is the display markup. Structured providers fill it via the
	// formatter; translation and local store answers carry their raw text.
	Definition string
	Provider   string
}

// ProviderKind enumerates the built-in kinds of definition sources.
type ProviderKind int

const (
	KindLocalStore ProviderKind = iota
	KindRemoteStructuredDictionary
	KindRemoteTranslation
)

func (k ProviderKind) String() string {
	switch k {
	case KindRemoteStructuredDictionary:
		return "remote_dictionary"
	case KindRemoteTranslation:
		return "remote_translation"
	default:
		return "local_store"
	}
}

// ProviderDescriptor describes a definition source. A nil Languages set means
// the provider accepts every language.
type ProviderDescriptor struct {
	Name      string
	Kind      ProviderKind
	Languages map[string]struct{}
}

// Supports reports whether the descriptor allows lang.
func (d ProviderDescriptor) Supports(lang string) bool {
	if d.Languages == nil {
		return true
	}
	_, ok := d.Languages[lang]
	return ok
}

// Source types in the local store catalog.
const (
	SourceTypeDict = "dict"
	SourceTypeFreq = "freq"
)

// Source is a catalog entry of the local store.
type Source struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
	Type string `json:"type"`
}

// LookupRecord is one entry of the lookup history.
type LookupRecord struct {
	Word       string
	Definition string // empty for failed lookups
	Lang       string
	Lemmatized bool
	Provider   string
	Success    bool
}

// Entry is one keyed value of a local store source: a definition for "dict"
// sources, an integer string for "freq" sources.
type Entry struct {
	Word  string
	Value string
}
