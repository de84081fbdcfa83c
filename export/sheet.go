package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Dosada05/bracket-builder/brackets"
)

var printSheetHeader = []string{
	"round", "round_name", "match", "number",
	"competitor1", "team1", "competitor2", "team2",
}

// WritePrintSheet writes one CSV row per match, round by round, for the mat
// tables. Byes and pending sides are spelled out in the competitor column.
func WritePrintSheet(w io.Writer, b *brackets.Bracket, locale string) error {
	l := labelsFor(locale)
	cw := csv.NewWriter(w)
	if err := cw.Write(printSheetHeader); err != nil {
		return fmt.Errorf("write print sheet header: %w", err)
	}

	for _, r := range b.Rounds {
		roundName := brackets.LocalizedRoundName(locale, r.Participants())
		for _, m := range r.Matches {
			s1, s2 := sides(m, l)
			number := ""
			if m.Number > 0 {
				number = strconv.Itoa(m.Number)
			}
			record := []string{
				strconv.Itoa(r.Number), roundName, m.UID, number,
				sideName(s1), s1.Team, sideName(s2), s2.Team,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write print sheet row %s: %w", m.UID, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush print sheet: %w", err)
	}
	return nil
}

func sideName(s side) string {
	switch {
	case s.Bye:
		return "BYE"
	case s.Pending != "":
		return s.Pending
	default:
		return s.Name
	}
}

// WriteText writes a plain-text rendition for terminals.
func WriteText(w io.Writer, b *brackets.Bracket, locale string) error {
	l := labelsFor(locale)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%d competitors, bracket of %d, %d byes\n", b.Category, len(b.Competitors), b.Size, b.Byes)
	if len(b.Rounds) == 0 {
		if champion := b.Champion(); champion != nil {
			fmt.Fprintf(tw, "%s:\t%s\n", l.Champion, champion.Name)
		}
	}
	for _, r := range b.Rounds {
		fmt.Fprintf(tw, "\n%s\n", strings.ToUpper(brackets.LocalizedRoundName(locale, r.Participants())))
		for _, m := range r.Matches {
			s1, s2 := sides(m, l)
			fmt.Fprintf(tw, "  %s\t%s\t%s\tvs\t%s\n", m.UID, matchLabel(m, l), s1.Text(), s2.Text())
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write bracket text: %w", err)
	}
	return nil
}
