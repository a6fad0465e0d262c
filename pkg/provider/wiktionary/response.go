package wiktionary

// apiUsage is one part-of-speech group of the REST definition endpoint. The
// response body maps language codes to lists of these.
type apiUsage struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Language     string          `json:"language"`
	Definitions  []apiDefinition `json:"definitions"`
}

// apiDefinition holds one sense as an HTML fragment.
type apiDefinition struct {
	Definition string `json:"definition"`
}
