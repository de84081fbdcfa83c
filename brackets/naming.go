package brackets

import "fmt"

// Round names keyed by the number of competitor slots in the round.
var roundNames = map[int]string{
	2:   "Final",
	4:   "Semifinal",
	8:   "Quarterfinal",
	16:  "Round of 16",
	32:  "Round of 32",
	64:  "Round of 64",
	128: "Round of 128",
	256: "Round of 256",
}

// Printed names used on Brazilian event sheets.
var roundNamesPtBR = map[int]string{
	2:   "FINAL",
	4:   "SEMIFINAIS",
	8:   "QUARTAS DE FINAL",
	16:  "OITAVAS DE FINAL",
	32:  "16-AVOS DE FINAL",
	64:  "32-AVOS DE FINAL",
	128: "64-AVOS DE FINAL",
	256: "128-AVOS DE FINAL",
}

const (
	LocaleEnglish    = "en"
	LocalePortuguese = "pt-BR"
)

// RoundName returns the display name of a round with the given number of
// competitor slots.
func RoundName(participants int) string {
	if name, ok := roundNames[participants]; ok {
		return name
	}
	return fmt.Sprintf("Round of %d", participants)
}

// LocalizedRoundName is RoundName for a display locale. Unknown locales get
// the English names.
func LocalizedRoundName(locale string, participants int) string {
	if locale != LocalePortuguese {
		return RoundName(participants)
	}
	if name, ok := roundNamesPtBR[participants]; ok {
		return name
	}
	return fmt.Sprintf("RODADA DE %d", participants)
}

func nameRounds(rounds []*Round) {
	for _, r := range rounds {
		r.Name = RoundName(r.Participants())
	}
}

// numberMatches numbers real matches from 1, round by round and left to
// right. Byes and undecided placeholders keep 0. It returns the last number
// used.
func numberMatches(rounds []*Round) int {
	next := 1
	for _, r := range rounds {
		for _, m := range r.Matches {
			if !m.IsReal() {
				continue
			}
			m.Number = next
			next++
		}
	}
	return next - 1
}
