package export

import (
	"fmt"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/models"
)

type labels struct {
	Bye      string
	WinnerOf string
	Match    string
	Champion string
}

var labelsByLocale = map[string]labels{
	brackets.LocaleEnglish: {
		Bye:      "BYE",
		WinnerOf: "Winner of %s",
		Match:    "Match #%d",
		Champion: "Champion",
	},
	brackets.LocalePortuguese: {
		Bye:      "BYE",
		WinnerOf: "Vencedor de %s",
		Match:    "Luta #%d",
		Champion: "Campeão",
	},
}

func labelsFor(locale string) labels {
	if l, ok := labelsByLocale[locale]; ok {
		return l
	}
	return labelsByLocale[brackets.LocaleEnglish]
}

// side describes one slot of a match for print. Round-1 empty slots are byes;
// later empty slots wait on the match feeding them.
type side struct {
	Name    string
	Team    string
	Seed    int
	Pending string
	Bye     bool
}

func (s side) Text() string {
	switch {
	case s.Bye:
		return "BYE"
	case s.Pending != "":
		return s.Pending
	case s.Team != "":
		return fmt.Sprintf("%s (%s)", s.Name, s.Team)
	default:
		return s.Name
	}
}

func describeSide(m *brackets.Match, c *models.Competitor, source *string, l labels) side {
	if c != nil {
		return side{Name: c.Name, Team: c.Team, Seed: c.Seed}
	}
	if m.Round == 1 || source == nil {
		return side{Bye: true}
	}
	return side{Pending: fmt.Sprintf(l.WinnerOf, *source)}
}

func sides(m *brackets.Match, l labels) (side, side) {
	return describeSide(m, m.Competitor1, m.SourceMatch1UID, l),
		describeSide(m, m.Competitor2, m.SourceMatch2UID, l)
}

func matchLabel(m *brackets.Match, l labels) string {
	switch {
	case m.Number > 0:
		return fmt.Sprintf(l.Match, m.Number)
	case m.IsBye:
		return l.Bye
	default:
		return ""
	}
}
