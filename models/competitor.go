package models

import "fmt"

// Competitor is one registration in a category. Seed is 0 until a bracket
// assigns a rank; AgeDivision, WeightDivision, Belt, Gender and Professor are
// only used to select a category and are never read by the bracket builder.
type Competitor struct {
	ID             int    `json:"id,omitempty" db:"id"`
	Name           string `json:"name" db:"name"`
	Team           string `json:"team" db:"team"`
	Seed           int    `json:"seed,omitempty" db:"-"`
	AgeDivision    string `json:"age_division,omitempty" db:"age_division"`
	WeightDivision string `json:"weight_division,omitempty" db:"weight_division"`
	Belt           string `json:"belt,omitempty" db:"belt"`
	Gender         string `json:"gender,omitempty" db:"gender"`
	Professor      string `json:"professor,omitempty" db:"professor"`
}

func (c Competitor) String() string {
	if c.Seed > 0 {
		return fmt.Sprintf("%s (%s) - Seed #%d", c.Name, c.Team, c.Seed)
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Team)
}
