package civiweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vie-scout/vigie/offer"
	"github.com/vie-scout/vigie/source"
)

// civiwebSource pages through the VIE offers search endpoint. The API has no
// server-side since filter, so every page is pulled and stale offers are
// dropped client-side.
type civiwebSource struct {
	options source.Options
	client  *http.Client
}

type searchRequest struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

type searchResponse struct {
	Count  int        `json:"count"`
	Result []rawOffer `json:"result"`
}

type rawOffer struct {
	ID                 int     `json:"id"`
	Reference          string  `json:"reference"`
	MissionTitle       string  `json:"missionTitle"`
	OrganizationName   string  `json:"organizationName"`
	CityName           string  `json:"cityName"`
	CountryName        string  `json:"countryName"`
	SectorLabel        string  `json:"activitySectorN1"`
	MissionDescription string  `json:"missionDescription"`
	ProfileDescription string  `json:"missionProfile"`
	MissionDuration    float64 `json:"missionDuration"`
	IndemniteEUR       float64 `json:"indemnite"`
	MissionStartDate   string  `json:"missionStartDate"`
	MissionUpdateDate  string  `json:"missionUpdateDate"`
	ContactEmail       string  `json:"contactEmail"`
	CandidateCounter   float64 `json:"candidateCounter"`
	ViewCounter        float64 `json:"viewCounter"`
}

func (s *civiwebSource) Offers(ctx context.Context, since time.Time) iter.Seq2[offer.Offer, error] {
	return func(yield func(offer.Offer, error) bool) {
		skip := 0

		for {
			page, err := s.fetchPage(ctx, skip, s.options.PageSize)
			if err != nil {
				yield(offer.Offer{}, fmt.Errorf("fetch offers page at %d: %w", skip, err))
				return
			}

			for _, raw := range page.Result {
				o := toOffer(raw)
				if !o.UpdatedAt.After(since) {
					continue
				}
				if !yield(o, nil) {
					return
				}
			}

			skip += len(page.Result)
			if len(page.Result) == 0 || skip >= page.Count {
				return
			}
		}
	}
}

func (s *civiwebSource) fetchPage(ctx context.Context, skip, limit int) (*searchResponse, error) {
	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(searchRequest{Skip: skip, Limit: limit})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.options.Location+"/api/offers/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(rsp.Body)
		return nil, fmt.Errorf("status: %s body: %s", rsp.Status, string(b))
	}

	var page searchResponse
	if err := json.NewDecoder(rsp.Body).Decode(&page); err != nil {
		return nil, err
	}

	return &page, nil
}

func toOffer(raw rawOffer) offer.Offer {
	id := raw.Reference
	if len(id) == 0 {
		id = strconv.Itoa(raw.ID)
	}

	rate := 0.0
	if raw.ViewCounter > 0 {
		rate = raw.CandidateCounter / raw.ViewCounter * 100
	}

	metadata := map[string]any{
		offer.MetaTitle:            raw.MissionTitle,
		offer.MetaCompany:          raw.OrganizationName,
		offer.MetaCity:             raw.CityName,
		offer.MetaCountry:          raw.CountryName,
		offer.MetaSector:           raw.SectorLabel,
		offer.MetaDurationMonths:   raw.MissionDuration,
		offer.MetaSalaryEUR:        raw.IndemniteEUR,
		offer.MetaStartDate:        raw.MissionStartDate,
		offer.MetaURL:              "https://mon-vie-via.businessfrance.fr/offres/" + id,
		offer.MetaContactEmail:     raw.ContactEmail,
		offer.MetaCandidatesCount:  raw.CandidateCounter,
		offer.MetaViewsCount:       raw.ViewCounter,
		offer.MetaApplicationRate:  rate,
		offer.MetaCompetitionLevel: competitionLevel(rate),
	}

	return offer.Offer{
		ID:        id,
		Text:      buildText(raw),
		Metadata:  metadata,
		UpdatedAt: parseDate(raw.MissionUpdateDate),
	}
}

func competitionLevel(rate float64) string {
	switch {
	case rate < 10:
		return "FAIBLE"
	case rate < 25:
		return "MOYENNE"
	default:
		return "ÉLEVÉE"
	}
}

// buildText concatenates the fields worth embedding: title, employer and
// location context, then the mission and candidate-profile descriptions.
func buildText(raw rawOffer) string {
	var b strings.Builder

	b.WriteString(raw.MissionTitle)
	b.WriteString("\n")
	b.WriteString(raw.OrganizationName)
	b.WriteString(" - ")
	b.WriteString(raw.CityName)
	b.WriteString(", ")
	b.WriteString(raw.CountryName)
	b.WriteString("\n")

	if len(raw.SectorLabel) > 0 {
		b.WriteString(raw.SectorLabel)
		b.WriteString("\n")
	}
	if len(raw.MissionDescription) > 0 {
		b.WriteString(raw.MissionDescription)
		b.WriteString("\n")
	}
	if len(raw.ProfileDescription) > 0 {
		b.WriteString(raw.ProfileDescription)
		b.WriteString("\n")
	}

	return b.String()
}

func parseDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// the API sometimes drops the zone designator
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func NewSource(opts ...source.Option) source.Source {
	options := source.NewOptions(opts...)

	s := &civiwebSource{
		options: options,
		client:  &http.Client{},
	}

	if len(s.options.Location) == 0 {
		s.options.Location = "https://civiweb-api-prd.azurewebsites.net"
	}

	return s
}
