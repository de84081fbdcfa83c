package models

import "fmt"

type SeedingPolicy string

const (
	// SeedingInsertion ranks competitors by their position in the input list.
	SeedingInsertion SeedingPolicy = "insertion"
	// SeedingTeamSpread draws competitors round-robin across teams, largest team first.
	SeedingTeamSpread SeedingPolicy = "team-spread"
)

func (p SeedingPolicy) Valid() bool {
	return p == SeedingInsertion || p == SeedingTeamSpread
}

// Selection narrows a roster to one category. Empty fields are unset, which
// matters only while the cascade of options is being built.
type Selection struct {
	Gender         string `json:"gender"`
	Belt           string `json:"belt"`
	AgeDivision    string `json:"age_division"`
	WeightDivision string `json:"weight_division"`
}

// Complete reports whether every dimension of the category is chosen.
func (s Selection) Complete() bool {
	return s.Gender != "" && s.Belt != "" && s.AgeDivision != "" && s.WeightDivision != ""
}

// CategoryOf returns the category c is registered in.
func CategoryOf(c *Competitor) Selection {
	return Selection{
		Gender:         c.Gender,
		Belt:           c.Belt,
		AgeDivision:    c.AgeDivision,
		WeightDivision: c.WeightDivision,
	}
}

// Matches treats unset fields as wildcards. It narrows the option cascade;
// category membership is CategoryOf(c) == s.
func (s Selection) Matches(c *Competitor) bool {
	return (s.Gender == "" || c.Gender == s.Gender) &&
		(s.Belt == "" || c.Belt == s.Belt) &&
		(s.AgeDivision == "" || c.AgeDivision == s.AgeDivision) &&
		(s.WeightDivision == "" || c.WeightDivision == s.WeightDivision)
}

// Label is the category name printed above a bracket.
func (s Selection) Label() string {
	return fmt.Sprintf("%s / %s / %s / %s", s.AgeDivision, s.Gender, s.WeightDivision, s.Belt)
}

// CategoryOptions lists the distinct values available for each dimension.
type CategoryOptions struct {
	Genders         []string `json:"genders"`
	Belts           []string `json:"belts"`
	AgeDivisions    []string `json:"age_divisions"`
	WeightDivisions []string `json:"weight_divisions"`
}

// Category is a populated selection of an event.
type Category struct {
	Selection
	Label           string `json:"label"`
	CompetitorCount int    `json:"competitor_count"`
}
