package utils

import "github.com/Dosada05/bracket-builder/models"

// NormalizeCompetitor cleans the attributes of an imported registration in
// place so the same category always reads the same way, whatever the source.
// Blank divisions become NotAvailable; the team stays as is, blank included.
func NormalizeCompetitor(c *models.Competitor) {
	c.Name = NormalizeText(c.Name)
	c.Team = NormalizeText(c.Team)
	c.Professor = NormalizeText(c.Professor)
	c.Gender = OrNotAvailable(NormalizeText(c.Gender))
	c.Belt = OrNotAvailable(NormalizeBelt(c.Belt))
	c.AgeDivision = OrNotAvailable(NormalizeAgeDivision(c.AgeDivision))
	c.WeightDivision = OrNotAvailable(NormalizeWeightDivision(c.WeightDivision))
}

// NormalizeSelection applies the competitor normalization to a category
// selection typed by a user, so "Masculino" finds "MASCULINO".
func NormalizeSelection(sel models.Selection) models.Selection {
	return models.Selection{
		Gender:         NormalizeText(sel.Gender),
		Belt:           NormalizeBelt(sel.Belt),
		AgeDivision:    NormalizeAgeDivision(sel.AgeDivision),
		WeightDivision: NormalizeWeightDivision(sel.WeightDivision),
	}
}
