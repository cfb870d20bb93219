package services

import (
	"sort"
	"strings"

	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
)

// FilterService evaluates filter specifications against the project
// collection and derives the option lists each filter dimension offers.
type FilterService interface {
	// Apply returns the projects satisfying every active criterion of
	// the spec. Dimensions combine with AND, values within one
	// dimension with OR; an empty spec returns the full collection.
	Apply(ds *repositories.Dataset, spec models.FilterSpec) []models.Project

	// Options computes the selectable values per filter dimension.
	Options(ds *repositories.Dataset) models.FilterOptions
}

type filterService struct{}

// NewFilterService creates a FilterService.
func NewFilterService() FilterService {
	return &filterService{}
}

// Apply evaluates the direct field filters first and the indirect
// owner-company join filter last; the join costs a pass over the Role
// collection, so the cheap dimensions shrink the candidate set before
// it runs. Evaluation order does not affect the result.
func (f *filterService) Apply(ds *repositories.Dataset, spec models.FilterSpec) []models.Project {
	search := strings.ToLower(strings.TrimSpace(spec.Search))
	countries := stringSet(spec.Countries)
	sectors := stringSet(spec.Sectors)
	statuses := stringSet(spec.Statuses)
	years := intSet(spec.AwardYears)

	selected := make([]models.Project, 0, len(ds.AllProjects()))
	for _, p := range ds.AllProjects() {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.ID), search) {
			continue
		}
		if len(countries) > 0 && !countries[p.Country] {
			continue
		}
		if len(sectors) > 0 && !sectors[p.Sector] {
			continue
		}
		if len(statuses) > 0 && !statuses[p.Status] {
			continue
		}
		if len(years) > 0 && (p.AwardYear == nil || !years[*p.AwardYear]) {
			continue
		}
		selected = append(selected, p)
	}

	if len(spec.ClientCompanies) > 0 {
		// Indirect filter: resolve the constraint against the Role
		// collection into a candidate id set, then require membership.
		// With no role data the candidate set is empty and nothing
		// matches; the constraint never silently disappears.
		candidates := f.ownerProjectIDs(ds, spec.ClientCompanies)
		kept := selected[:0]
		for _, p := range selected {
			if candidates[p.ID] {
				kept = append(kept, p)
			}
		}
		selected = kept
	}

	return selected
}

// ownerProjectIDs collects the ids of projects that have an Owner role
// held by one of the given companies.
func (f *filterService) ownerProjectIDs(ds *repositories.Dataset, companies []string) map[string]bool {
	wanted := stringSet(companies)
	ids := make(map[string]bool)
	for _, r := range ds.AllRoles() {
		if r.RoleType == models.RoleOwner && wanted[r.CompanyName] && r.ProjectID != "" {
			ids[r.ProjectID] = true
		}
	}
	return ids
}

// Options derives the filter option lists from the full dataset.
// Blank values never appear as options, and award years at or below
// 1900 are treated as unset noise (the records themselves keep the
// value for display).
func (f *filterService) Options(ds *repositories.Dataset) models.FilterOptions {
	countries := make(map[string]bool)
	sectors := make(map[string]bool)
	statuses := make(map[string]bool)
	years := make(map[int]bool)
	for _, p := range ds.AllProjects() {
		if p.Country != "" {
			countries[p.Country] = true
		}
		if p.Sector != "" {
			sectors[p.Sector] = true
		}
		if p.Status != "" {
			statuses[p.Status] = true
		}
		if p.AwardYear != nil && *p.AwardYear > 1900 {
			years[*p.AwardYear] = true
		}
	}

	companies := make(map[string]bool)
	for _, r := range ds.AllRoles() {
		if r.RoleType == models.RoleOwner && r.CompanyName != "" {
			companies[r.CompanyName] = true
		}
	}

	opts := models.FilterOptions{
		Countries:       sortedStrings(countries),
		Sectors:         sortedStrings(sectors),
		Statuses:        sortedStrings(statuses),
		AwardYears:      sortedInts(years),
		ClientCompanies: sortedStrings(companies),
	}
	// Newest award years first, matching the original picker.
	sort.Sort(sort.Reverse(sort.IntSlice(opts.AwardYears)))
	return opts
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func intSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

var _ FilterService = (*filterService)(nil)
