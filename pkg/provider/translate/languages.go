package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/japaniel/wordlookup/pkg/domain"
)

// Codes are the target languages accepted by the translation endpoint.
var Codes = []string{
	"af", "sq", "am", "ar", "hy", "az", "eu", "be", "bn", "bs", "bg", "ca",
	"ceb", "ny", "zh-cn", "zh-tw", "co", "hr", "cs", "da", "nl", "en", "eo",
	"et", "tl", "fi", "fr", "fy", "gl", "ka", "de", "el", "gu", "ht", "ha",
	"haw", "iw", "hi", "hmn", "hu", "is", "ig", "id", "ga", "it", "ja", "jw",
	"kn", "kk", "km", "ko", "ku", "ky", "lo", "la", "lv", "lt", "lb", "mk",
	"mg", "ms", "ml", "mt", "mi", "mr", "mn", "my", "ne", "no", "ps", "fa",
	"pl", "pt", "pa", "ro", "ru", "sm", "gd", "sr", "st", "sn", "sd", "si",
	"sk", "sl", "so", "es", "su", "sw", "sv", "tg", "ta", "te", "th", "tr",
	"uk", "ur", "ug", "uz", "vi", "cy", "xh", "yi", "yo", "zu",
}

// nameOverrides holds display names the endpoint uses that differ from the
// CLDR English names.
var nameOverrides = map[string]string{
	"zh-cn": "chinese (simplified)",
	"zh-tw": "chinese (traditional)",
	"ny":    "chichewa",
	"ht":    "haitian creole",
	"ku":    "kurdish (kurmanji)",
	"my":    "myanmar (burmese)",
}

var (
	codeSet   = make(map[string]struct{}, len(Codes))
	nameIndex = make(map[string]string, len(Codes))
)

func init() {
	namer := display.English.Languages()
	for _, code := range Codes {
		codeSet[code] = struct{}{}
		if name, ok := nameOverrides[code]; ok {
			nameIndex[name] = code
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		if name := namer.Name(tag); name != "" {
			if _, taken := nameIndex[strings.ToLower(name)]; !taken {
				nameIndex[strings.ToLower(name)] = code
			}
		}
	}
	// Bare "chinese" picks the simplified script.
	nameIndex["chinese"] = "zh-cn"
}

// TargetCode resolves a display language name ("German") or a code ("de")
// to the endpoint's target code. Matching is case-insensitive.
func TargetCode(nameOrCode string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrCode))
	if _, ok := codeSet[key]; ok {
		return key, nil
	}
	if code, ok := nameIndex[key]; ok {
		return code, nil
	}
	return "", fmt.Errorf("translate: target %q: %w", nameOrCode, domain.ErrUnknownLanguage)
}
