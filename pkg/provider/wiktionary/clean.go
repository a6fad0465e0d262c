package wiktionary

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// StripHTML returns the text content of an HTML fragment with entities
// decoded and runs of whitespace collapsed.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(multiSpaceRe.ReplaceAllString(b.String(), " "))
		case html.StartTagToken:
			if isHidden(z) {
				skip++
			}
		case html.EndTagToken:
			if skip > 0 && isHidden(z) {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isHidden(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
