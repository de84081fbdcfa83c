package models

type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	CompetitorsTotal int          `json:"competitors_total"`
	TeamsTotal       int          `json:"teams_total"`
	Male             int          `json:"male"`
	Female           int          `json:"female"`
	AgeGroups        []CountEntry `json:"age_groups"`
	AgeDivisions     []CountEntry `json:"age_divisions"`
	Belts            []CountEntry `json:"belts"`
	WeightDivisions  []CountEntry `json:"weight_divisions"`
	TopTeams         []CountEntry `json:"top_teams"`
	TopProfessors    []CountEntry `json:"top_professors"`
}
