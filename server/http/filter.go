package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vie-scout/vigie/search"
)

// filter is the wire form of search.Filter for both the JSON body and the
// query-string variants.
type filter struct {
	Countries []string `json:"countries,omitempty"`
	Cities    []string `json:"cities,omitempty"`
	Companies []string `json:"companies,omitempty"`
	Sectors   []string `json:"sectors,omitempty"`

	MinDurationMonths float64 `json:"min_duration_months,omitempty"`
	MaxDurationMonths float64 `json:"max_duration_months,omitempty"`

	MinSalaryEUR float64 `json:"min_salary_eur,omitempty"`
	MaxSalaryEUR float64 `json:"max_salary_eur,omitempty"`

	StartAfter  string `json:"start_after,omitempty"`
	StartBefore string `json:"start_before,omitempty"`

	MaxApplicationRate float64 `json:"max_application_rate,omitempty"`
	MaxCompetition     string  `json:"max_competition,omitempty"`
}

func (f *filter) toSearchFilter() *search.Filter {
	out := &search.Filter{
		Countries:          f.Countries,
		Cities:             f.Cities,
		Companies:          f.Companies,
		Sectors:            f.Sectors,
		MinDurationMonths:  f.MinDurationMonths,
		MaxDurationMonths:  f.MaxDurationMonths,
		MinSalaryEUR:       f.MinSalaryEUR,
		MaxSalaryEUR:       f.MaxSalaryEUR,
		MaxApplicationRate: f.MaxApplicationRate,
		MaxCompetition:     f.MaxCompetition,
	}

	if t, err := time.Parse("2006-01-02", f.StartAfter); err == nil {
		out.StartAfter = t
	}
	if t, err := time.Parse("2006-01-02", f.StartBefore); err == nil {
		out.StartBefore = t
	}

	return out
}

// filterFromQuery builds a filter from query parameters. Returns nil when no
// filter parameter is present so unfiltered queries keep the push-down path.
func filterFromQuery(q url.Values) *search.Filter {
	f := filter{
		Countries:          splitList(q.Get("country")),
		Cities:             splitList(q.Get("city")),
		Companies:          splitList(q.Get("company")),
		Sectors:            splitList(q.Get("sector")),
		MinDurationMonths:  parseFloat(q.Get("min_duration_months")),
		MaxDurationMonths:  parseFloat(q.Get("max_duration_months")),
		MinSalaryEUR:       parseFloat(q.Get("min_salary_eur")),
		MaxSalaryEUR:       parseFloat(q.Get("max_salary_eur")),
		StartAfter:         q.Get("start_after"),
		StartBefore:        q.Get("start_before"),
		MaxApplicationRate: parseFloat(q.Get("max_application_rate")),
		MaxCompetition:     q.Get("max_competition"),
	}

	if len(f.Countries) == 0 && len(f.Cities) == 0 && len(f.Companies) == 0 && len(f.Sectors) == 0 &&
		f.MinDurationMonths == 0 && f.MaxDurationMonths == 0 &&
		f.MinSalaryEUR == 0 && f.MaxSalaryEUR == 0 &&
		len(f.StartAfter) == 0 && len(f.StartBefore) == 0 &&
		f.MaxApplicationRate == 0 && len(f.MaxCompetition) == 0 {
		return nil
	}

	return f.toSearchFilter()
}

func splitList(s string) []string {
	if len(s) == 0 {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); len(trimmed) > 0 {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
