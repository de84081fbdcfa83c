package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/utils"
)

const (
	GenderMale   = "MASCULINO"
	GenderFemale = "FEMININO"

	AgeGroupMasters = "MASTERS"
	AgeGroupAdult   = "ADULTO"
	AgeGroupKids    = "KIDS"

	topListSize = 10
)

type DashboardService interface {
	GetStats(ctx context.Context, eventID int) (models.DashboardStats, error)
}

type dashboardService struct {
	categories CategoryService
}

func NewDashboardService(categories CategoryService) DashboardService {
	return &dashboardService{categories: categories}
}

func (s *dashboardService) GetStats(ctx context.Context, eventID int) (models.DashboardStats, error) {
	roster, err := s.categories.Roster(ctx, eventID)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to compute dashboard: %w", err)
	}
	return ComputeDashboard(roster), nil
}

// AgeGroup buckets an age division into MASTERS, ADULTO or KIDS.
func AgeGroup(ageDivision string) string {
	switch {
	case strings.Contains(ageDivision, "MASTER"):
		return AgeGroupMasters
	case strings.Contains(ageDivision, "ADULTO"):
		return AgeGroupAdult
	default:
		return AgeGroupKids
	}
}

// ComputeDashboard summarizes a roster.
func ComputeDashboard(roster []*models.Competitor) models.DashboardStats {
	var stats models.DashboardStats
	stats.CompetitorsTotal = len(roster)

	teams := make(map[string]int)
	professors := make(map[string]int)
	ageGroups := make(map[string]int)
	ageDivisions := make(map[string]int)
	belts := make(map[string]int)
	weights := make(map[string]int)

	for _, c := range roster {
		switch c.Gender {
		case GenderMale:
			stats.Male++
		case GenderFemale:
			stats.Female++
		}
		if c.Team != "" {
			teams[c.Team]++
		}
		if c.Professor != "" && c.Professor != utils.NotAvailable {
			professors[c.Professor]++
		}
		ageGroups[AgeGroup(c.AgeDivision)]++
		ageDivisions[c.AgeDivision]++
		belts[c.Belt]++
		weights[c.WeightDivision]++
	}

	stats.TeamsTotal = len(teams)
	stats.AgeGroups = countEntries(ageGroups, 0)
	stats.AgeDivisions = countEntries(ageDivisions, 0)
	stats.Belts = countEntries(belts, 0)
	stats.WeightDivisions = countEntries(weights, 0)
	stats.TopTeams = countEntries(teams, topListSize)
	stats.TopProfessors = countEntries(professors, topListSize)
	return stats
}

// countEntries sorts by count descending, then key ascending, keeping at
// most limit entries when limit > 0.
func countEntries(counts map[string]int, limit int) []models.CountEntry {
	entries := make([]models.CountEntry, 0, len(counts))
	for k, n := range counts {
		entries = append(entries, models.CountEntry{Key: k, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
