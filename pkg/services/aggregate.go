package services

import (
	"sort"

	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
)

// Ranking sizes and the award-timeline cutoff. The year cutoff is a
// display rule for that one chart, not a data-quality rule; nothing
// else may apply it.
const (
	topRoleCount    = 10
	topCompanyCount = 10
	topProductCount = 15
	timelineMinYear = 2000
)

// AggregationService computes the derived views over a filtered
// project selection. Every computation tolerates an empty selection and
// returns zeros, "N/A", or empty slices rather than failing.
type AggregationService interface {
	// Dashboard bundles every derived view for the given selection.
	Dashboard(ds *repositories.Dataset, projects []models.Project) *models.DashboardView

	// KPIs computes the scalar rollups for the selection.
	KPIs(projects []models.Project) models.KPISet
}

type aggregationService struct{}

// NewAggregationService creates an AggregationService.
func NewAggregationService() AggregationService {
	return &aggregationService{}
}

func (a *aggregationService) Dashboard(ds *repositories.Dataset, projects []models.Project) *models.DashboardView {
	selected := idSet(projects)
	roles := restrictRoles(ds, selected)
	return &models.DashboardView{
		Projects:          projects,
		KPIs:              a.KPIs(projects),
		ValueByCountry:    sumByKey(projects, func(p models.Project) string { return p.Country }),
		ValueBySector:     sumByKey(projects, func(p models.Project) string { return p.Sector }),
		ValueByYearStatus: sumByYearStatus(projects),
		TopRoles:          topCounts(roles, func(r models.Role) string { return r.RoleType }, topRoleCount),
		TopCompanies:      topCounts(roles, func(r models.Role) string { return r.CompanyName }, topCompanyCount),
		TopProducts:       topProducts(ds, selected),
		Timeline:          timeline(ds, selected),
	}
}

// KPIs computes total, count, average and modal sector. Average is 0
// for an empty selection; the modal sector of an empty selection is
// "N/A". Modal ties break to the sector seen first in selection order,
// a deliberate, reproducible convention. Blank sectors are unknowns:
// they count toward the totals but never toward the mode.
func (a *aggregationService) KPIs(projects []models.Project) models.KPISet {
	kpis := models.KPISet{
		ProjectCount: len(projects),
		TopSector:    "N/A",
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, p := range projects {
		kpis.TotalValue += p.NetValue
		if p.Sector == "" {
			continue
		}
		if _, seen := counts[p.Sector]; !seen {
			order = append(order, p.Sector)
		}
		counts[p.Sector]++
	}

	if kpis.ProjectCount > 0 {
		kpis.AverageValue = kpis.TotalValue / float64(kpis.ProjectCount)
	}

	best := 0
	for _, sector := range order {
		if counts[sector] > best {
			best = counts[sector]
			kpis.TopSector = sector
		}
	}
	return kpis
}

// sumByKey groups the selection's net value by a project field, keys in
// first-seen order. A blank key is an unknown and forms no group, so
// the groups partition the total only over rows with a known key.
func sumByKey(projects []models.Project, key func(models.Project) string) []models.GroupTotal {
	totals := make(map[string]int) // key -> index into out
	out := make([]models.GroupTotal, 0)
	for _, p := range projects {
		k := key(p)
		if k == "" {
			continue
		}
		i, seen := totals[k]
		if !seen {
			i = len(out)
			totals[k] = i
			out = append(out, models.GroupTotal{Key: k})
		}
		out[i].Total += p.NetValue
	}
	return out
}

// sumByYearStatus groups net value by (award year, status), restricted
// to award years after the timeline cutoff. Projects with no award year
// cannot appear on the timeline. Pair order is first-seen.
func sumByYearStatus(projects []models.Project) []models.YearStatusTotal {
	type pair struct {
		year   int
		status string
	}
	index := make(map[pair]int)
	out := make([]models.YearStatusTotal, 0)
	for _, p := range projects {
		if p.AwardYear == nil || *p.AwardYear <= timelineMinYear {
			continue
		}
		k := pair{*p.AwardYear, p.Status}
		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, models.YearStatusTotal{AwardYear: k.year, Status: k.status})
		}
		out[i].Total += p.NetValue
	}
	return out
}

// idSet collects the canonical ids of the selection, skipping unknown
// ids so related rows with empty ids never join in.
func idSet(projects []models.Project) map[string]bool {
	ids := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p.ID != "" {
			ids[p.ID] = true
		}
	}
	return ids
}

// restrictRoles returns the role rows reachable from the selection, in
// collection order.
func restrictRoles(ds *repositories.Dataset, selected map[string]bool) []models.Role {
	out := make([]models.Role, 0)
	for _, r := range ds.AllRoles() {
		if selected[r.ProjectID] {
			out = append(out, r)
		}
	}
	return out
}

// topCounts ranks the values of one role field by frequency, keeping
// the top n. Equal counts retain first-seen order (stable sort).
func topCounts(roles []models.Role, key func(models.Role) string, n int) []models.CountRow {
	index := make(map[string]int)
	out := make([]models.CountRow, 0)
	for _, r := range roles {
		k := key(r)
		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, models.CountRow{Value: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// topProducts sums quantities per product over the reachable product
// rows and keeps the top entries by summed quantity, stable on ties.
// An absent Products sheet yields an empty ranking.
func topProducts(ds *repositories.Dataset, selected map[string]bool) []models.ProductTotal {
	index := make(map[string]int)
	out := make([]models.ProductTotal, 0)
	for _, p := range ds.AllProducts() {
		if !selected[p.ProjectID] {
			continue
		}
		i, seen := index[p.ProductName]
		if !seen {
			i = len(out)
			index[p.ProductName] = i
			out = append(out, models.ProductTotal{ProductName: p.ProductName})
		}
		out[i].Quantity += p.Quantity
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > topProductCount {
		out = out[:topProductCount]
	}
	return out
}

// timeline returns the reachable events sorted ascending by date.
// Events with an unknown date sort last, keeping collection order among
// themselves.
func timeline(ds *repositories.Dataset, selected map[string]bool) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range ds.AllEvents() {
		if selected[e.ProjectID] {
			out = append(out, e)
		}
	}
	sortEventsByDate(out)
	return out
}

// sortEventsByDate orders events ascending by date with nil dates last;
// the sort is stable so equal dates keep collection order.
func sortEventsByDate(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Date, events[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

var _ AggregationService = (*aggregationService)(nil)
