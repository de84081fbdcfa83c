package export

import (
	"golang.org/x/text/language"

	"github.com/Dosada05/bracket-builder/brackets"
)

var (
	supportedLocales = []string{brackets.LocaleEnglish, brackets.LocalePortuguese}
	localeMatcher    = language.NewMatcher([]language.Tag{language.English, language.BrazilianPortuguese})
)

// MatchLocale picks the supported locale closest to the first usable
// preference. Each preference is a tag or an Accept-Language value; blank or
// unparsable ones are skipped. English is the fallback.
func MatchLocale(preferences ...string) string {
	for _, pref := range preferences {
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, index, confidence := localeMatcher.Match(tags...)
		if confidence == language.No {
			continue
		}
		return supportedLocales[index]
	}
	return brackets.LocaleEnglish
}
