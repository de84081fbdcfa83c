package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/utils"
)

var ErrNoCategories = errors.New("no categories found on registration page")

const (
	titleSelector     = "h4.MuiTypography-root"
	accordionSelector = ".MuiAccordion-root"
	summarySelector   = ".MuiAccordionSummary-root .MuiTypography-root"
	cardSelector      = ".MuiBox-root.css-g32t2d"

	teamPrefix      = "Equipe: "
	professorPrefix = "Professor(a): "
)

// Registration is the content of one check-in page.
type Registration struct {
	Title       string
	Competitors []*models.Competitor
}

// Parse reads a rendered ProCompetidor check-in page. Competitors are
// returned in page order with their attributes normalized.
func Parse(r io.Reader) (*Registration, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse registration page: %w", err)
	}

	reg := &Registration{Title: models.DefaultEventTitle}
	if title := strings.TrimSpace(doc.Find(titleSelector).First().Text()); title != "" {
		reg.Title = title
	}

	accordions := doc.Find(accordionSelector)
	if accordions.Length() == 0 {
		return nil, ErrNoCategories
	}

	accordions.Each(func(_ int, accordion *goquery.Selection) {
		category, ok := parseCategoryTitle(accordion.Find(summarySelector).First().Text())
		if !ok {
			return
		}
		accordion.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
			if c, ok := parseCard(card, category); ok {
				reg.Competitors = append(reg.Competitors, c)
			}
		})
	})

	for _, c := range reg.Competitors {
		utils.NormalizeCompetitor(c)
	}
	return reg, nil
}

// parseCategoryTitle splits "Adulto, Azul, Leve, Masculino - 12" (or the
// weightless "Kids 1, Branca, Feminino - 3") into a category template.
func parseCategoryTitle(raw string) (models.Competitor, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var c models.Competitor
	switch {
	case len(parts) >= 4:
		c.AgeDivision, c.Belt, c.WeightDivision = parts[0], parts[1], parts[2]
		c.Gender = stripCount(parts[3])
	case len(parts) == 3:
		c.AgeDivision, c.Belt = parts[0], parts[1]
		c.WeightDivision = utils.NotAvailable
		c.Gender = stripCount(parts[2])
	default:
		return c, false
	}
	return c, true
}

func stripCount(s string) string {
	before, _, _ := strings.Cut(s, " - ")
	return strings.TrimSpace(before)
}

func parseCard(card *goquery.Selection, category models.Competitor) (*models.Competitor, bool) {
	name := strings.TrimSpace(card.Find("h6").First().Text())
	infos := card.Find("p")
	if name == "" || infos.Length() == 0 {
		return nil, false
	}

	c := category
	c.Name = name
	c.Team = strings.TrimSpace(strings.Replace(infos.Eq(0).Text(), teamPrefix, "", 1))
	c.Professor = utils.NotAvailable
	if infos.Length() > 1 {
		c.Professor = strings.TrimSpace(strings.Replace(infos.Eq(1).Text(), professorPrefix, "", 1))
	}
	return &c, true
}
