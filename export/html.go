package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Dosada05/bracket-builder/brackets"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type RenderOptions struct {
	// Title is printed above the category, usually the event title.
	Title  string
	Locale string
}

type htmlMatch struct {
	UID   string
	Label string
	Side1 side
	Side2 side
}

type htmlRound struct {
	Name    string
	Matches []htmlMatch
}

type htmlPage struct {
	Lang          string
	Title         string
	Category      string
	Competitors   int
	Rounds        []htmlRound
	Champion      string
	ChampionLabel string
}

// RenderHTML writes a standalone page with one column per round.
func RenderHTML(w io.Writer, b *brackets.Bracket, opts RenderOptions) error {
	l := labelsFor(opts.Locale)
	page := htmlPage{
		Lang:          opts.Locale,
		Title:         opts.Title,
		Category:      b.Category,
		Competitors:   len(b.Competitors),
		Rounds:        make([]htmlRound, 0, len(b.Rounds)),
		ChampionLabel: l.Champion,
	}
	if page.Lang == "" {
		page.Lang = brackets.LocaleEnglish
	}
	if champion := b.Champion(); champion != nil {
		page.Champion = champion.Name
	}

	for _, r := range b.Rounds {
		round := htmlRound{
			Name:    brackets.LocalizedRoundName(opts.Locale, r.Participants()),
			Matches: make([]htmlMatch, 0, len(r.Matches)),
		}
		for _, m := range r.Matches {
			s1, s2 := sides(m, l)
			round.Matches = append(round.Matches, htmlMatch{
				UID:   m.UID,
				Label: matchLabel(m, l),
				Side1: s1,
				Side2: s2,
			})
		}
		page.Rounds = append(page.Rounds, round)
	}

	if err := templates.ExecuteTemplate(w, "bracket.html", page); err != nil {
		return fmt.Errorf("render bracket html: %w", err)
	}
	return nil
}
