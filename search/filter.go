package search

import (
	"slices"
	"strings"
	"time"

	"github.com/vie-scout/vigie/offer"
)

// Competition levels as reported by the source, from least to most contested.
const (
	CompetitionLow    = "FAIBLE"
	CompetitionMedium = "MOYENNE"
	CompetitionHigh   = "ÉLEVÉE"
)

var competitionRank = map[string]int{
	CompetitionLow:    1,
	CompetitionMedium: 2,
	CompetitionHigh:   3,
}

// Filter narrows the candidate set by metadata before ranking. Zero values
// mean "no constraint". An offer missing a constrained field is excluded.
type Filter struct {
	Countries []string
	Cities    []string
	Companies []string
	// Sectors matches when any requested sector is a substring of the
	// offer's sector label.
	Sectors []string

	MinDurationMonths float64
	MaxDurationMonths float64

	MinSalaryEUR float64
	MaxSalaryEUR float64

	StartAfter  time.Time
	StartBefore time.Time

	MaxApplicationRate float64
	// MaxCompetition admits offers at or below this competition level.
	MaxCompetition string
}

// Matches reports whether metadata satisfies every set constraint.
func (f *Filter) Matches(metadata map[string]any) bool {
	if len(f.Countries) > 0 && !slices.Contains(f.Countries, offer.MetaString(metadata, offer.MetaCountry)) {
		return false
	}
	if len(f.Cities) > 0 && !slices.Contains(f.Cities, offer.MetaString(metadata, offer.MetaCity)) {
		return false
	}
	if len(f.Companies) > 0 && !slices.Contains(f.Companies, offer.MetaString(metadata, offer.MetaCompany)) {
		return false
	}

	if len(f.Sectors) > 0 {
		sector := offer.MetaString(metadata, offer.MetaSector)
		found := false
		for _, want := range f.Sectors {
			if strings.Contains(sector, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinDurationMonths > 0 || f.MaxDurationMonths > 0 {
		duration, ok := offer.MetaFloat(metadata, offer.MetaDurationMonths)
		if !ok {
			return false
		}
		if f.MinDurationMonths > 0 && duration < f.MinDurationMonths {
			return false
		}
		if f.MaxDurationMonths > 0 && duration > f.MaxDurationMonths {
			return false
		}
	}

	if f.MinSalaryEUR > 0 || f.MaxSalaryEUR > 0 {
		salary, ok := offer.MetaFloat(metadata, offer.MetaSalaryEUR)
		if !ok {
			return false
		}
		if f.MinSalaryEUR > 0 && salary < f.MinSalaryEUR {
			return false
		}
		if f.MaxSalaryEUR > 0 && salary > f.MaxSalaryEUR {
			return false
		}
	}

	if !f.StartAfter.IsZero() || !f.StartBefore.IsZero() {
		start, ok := parseStartDate(offer.MetaString(metadata, offer.MetaStartDate))
		if !ok {
			return false
		}
		if !f.StartAfter.IsZero() && start.Before(f.StartAfter) {
			return false
		}
		if !f.StartBefore.IsZero() && start.After(f.StartBefore) {
			return false
		}
	}

	if f.MaxApplicationRate > 0 {
		rate, ok := offer.MetaFloat(metadata, offer.MetaApplicationRate)
		if !ok || rate > f.MaxApplicationRate {
			return false
		}
	}

	if len(f.MaxCompetition) > 0 {
		max, known := competitionRank[f.MaxCompetition]
		if !known {
			max = competitionRank[CompetitionHigh]
		}
		rank, known := competitionRank[offer.MetaString(metadata, offer.MetaCompetitionLevel)]
		if !known || rank > max {
			return false
		}
	}

	return true
}

func parseStartDate(s string) (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
