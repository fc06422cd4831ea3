package offer

import "time"

// Offer is one job posting as produced by the source system.
// ID is the stable unique key issued by the source; UpdatedAt is the
// source-side change marker used for incremental ingestion.
type Offer struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Metadata keys written by the civiweb source and consumed by search filters
// and the answer prompt.
const (
	MetaTitle            = "title"
	MetaCompany          = "company"
	MetaCity             = "city"
	MetaCountry          = "country"
	MetaSector           = "sector"
	MetaDurationMonths   = "duration_months"
	MetaSalaryEUR        = "salary_eur"
	MetaStartDate        = "start_date"
	MetaURL              = "url"
	MetaContactEmail     = "contact_email"
	MetaCandidatesCount  = "candidates_count"
	MetaViewsCount       = "views_count"
	MetaApplicationRate  = "application_rate"
	MetaCompetitionLevel = "competition_level"
)

// MetaString returns the string value for key, or "" when absent or not a string.
func MetaString(metadata map[string]any, key string) string {
	if v, ok := metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// MetaFloat returns the numeric value for key. JSON round-trips numbers as
// float64, so int and float64 are both accepted.
func MetaFloat(metadata map[string]any, key string) (float64, bool) {
	switch v := metadata[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
