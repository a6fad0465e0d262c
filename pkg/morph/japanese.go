package morph

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one analyzed unit of a Japanese word.
type Token struct {
	Surface  string // as written, e.g. "行っ"
	BaseForm string // dictionary form, e.g. "行く"
	POS      string // IPA primary part of speech, e.g. "動詞"
	SubPOS   string // first IPA sub-category, e.g. "自立"
}

// auxiliary reports whether t only inflects or marks the preceding word.
func (t Token) auxiliary() bool {
	switch t.POS {
	case "助動詞", "助詞", "記号":
		return true
	}
	return t.SubPOS == "非自立"
}

// Japanese wraps the kagome tokenizer with the IPA dictionary.
type Japanese struct {
	t *tokenizer.Tokenizer
}

// NewJapanese creates a new tokenizer instance.
func NewJapanese() (*Japanese, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Japanese{t: t}, nil
}

// Analyze breaks text into tokens with base forms.
func (j *Japanese) Analyze(text string) []Token {
	var result []Token
	for _, token := range j.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0 POS, 1-3 sub-POS, 4-5 conjugation, 6 base form.
		features := token.Features()
		tok := Token{Surface: token.Surface, BaseForm: token.Surface}
		if len(features) > 0 {
			tok.POS = features[0]
		}
		if len(features) > 1 && features[1] != "*" {
			tok.SubPOS = features[1]
		}
		if len(features) > 6 && features[6] != "*" {
			tok.BaseForm = features[6]
		}
		result = append(result, tok)
	}
	return result
}

// Parse returns the dictionary form of an inflected word: one leading content
// token followed only by auxiliaries ("行った" is 行っ + た). Compounds such
// as "東京都" have no parse, so the word is kept whole.
func (j *Japanese) Parse(word string) []Parse {
	tokens := j.Analyze(word)
	if len(tokens) == 0 || tokens[0].auxiliary() {
		return nil
	}
	for _, tok := range tokens[1:] {
		if !tok.auxiliary() {
			return nil
		}
	}
	return []Parse{{NormalForm: tokens[0].BaseForm, Tag: tokens[0].POS, Score: 1}}
}
