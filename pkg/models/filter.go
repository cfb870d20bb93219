package models

import (
	"encoding/json"
	"strings"

	"github.com/capintel/portfolio-engine/pkg/jsonutil"
)

// FilterSpec describes one dashboard filter state. Every field is
// optional; an empty slice or blank search places no constraint on that
// dimension. Dimensions combine with AND, values within one dimension
// with OR.
type FilterSpec struct {
	// Search matches case-insensitively against the project name, or as
	// a substring of the canonical project id. Whitespace-only input is
	// treated as absent.
	Search string `json:"search,omitempty"`

	Countries  []string `json:"countries,omitempty"`
	Sectors    []string `json:"sectors,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
	AwardYears []int    `json:"award_years,omitempty"`

	// ClientCompanies filters indirectly through the Role collection: a
	// project matches when at least one Owner role from one of these
	// companies references its id.
	ClientCompanies []string `json:"client_companies,omitempty"`
}

// UnmarshalJSON accepts award years as numbers or numeric strings.
// Spreadsheet-derived clients send "2019" and 2019.0 interchangeably;
// non-numeric elements are dropped rather than failing the request.
func (s *FilterSpec) UnmarshalJSON(data []byte) error {
	type alias FilterSpec
	aux := struct {
		*alias
		AwardYears json.RawMessage `json:"award_years,omitempty"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.AwardYears = jsonutil.FlexibleIntSlice(aux.AwardYears)
	return nil
}

// HasSearch reports whether the search term places a constraint.
func (s *FilterSpec) HasSearch() bool {
	return strings.TrimSpace(s.Search) != ""
}

// IsEmpty reports whether no dimension is constrained, in which case
// filtering returns the full project collection.
func (s *FilterSpec) IsEmpty() bool {
	return !s.HasSearch() &&
		len(s.Countries) == 0 &&
		len(s.Sectors) == 0 &&
		len(s.Statuses) == 0 &&
		len(s.AwardYears) == 0 &&
		len(s.ClientCompanies) == 0
}
