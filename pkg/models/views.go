package models

// KPISet holds the scalar rollups shown at the top of the dashboard.
// AverageValue is 0 when the selection is empty. TopSector is the modal
// sector of the selection, "N/A" when the selection is empty or no
// project carries a sector; blank sectors never count toward the mode,
// and ties break to the value encountered first in collection order.
type KPISet struct {
	TotalValue   float64 `json:"total_value"`
	ProjectCount int     `json:"project_count"`
	AverageValue float64 `json:"average_value"`
	TopSector    string  `json:"top_sector"`
}

// GroupTotal is one row of a sum-of-value grouping (by country, sector).
type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// YearStatusTotal is one row of the award-timeline grouping: net value
// summed per (award year, status) pair. The view is restricted to award
// years after 2000; that cutoff belongs to this view alone.
type YearStatusTotal struct {
	AwardYear int     `json:"award_year"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
}

// CountRow is one row of a frequency ranking (role types, companies).
type CountRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ProductTotal is one row of the quantity-by-product ranking.
type ProductTotal struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
}

// DashboardView bundles every derived view the presentation layer
// renders for one filter state.
type DashboardView struct {
	Projects []Project `json:"projects"`

	KPIs KPISet `json:"kpis"`

	ValueByCountry    []GroupTotal      `json:"value_by_country"`
	ValueBySector     []GroupTotal      `json:"value_by_sector"`
	ValueByYearStatus []YearStatusTotal `json:"value_by_year_status"`

	TopRoles     []CountRow     `json:"top_roles"`
	TopCompanies []CountRow     `json:"top_companies"`
	TopProducts  []ProductTotal `json:"top_products"`

	Timeline []Event `json:"timeline"`
}

// FilterOptions lists the values each filter dimension can offer.
// AwardYears excludes noise values at or below 1900 and is sorted
// descending; the other lists are sorted ascending. ClientCompanies
// holds the company names of Owner roles.
type FilterOptions struct {
	Countries       []string `json:"countries"`
	Sectors         []string `json:"sectors"`
	Statuses        []string `json:"statuses"`
	AwardYears      []int    `json:"award_years"`
	ClientCompanies []string `json:"client_companies"`
}

// DrilldownBundle is the full cross-entity detail for one project:
// the project record, its stakeholder roles, its products, and its
// events sorted ascending by date with unknown dates last.
type DrilldownBundle struct {
	Project  Project   `json:"project"`
	Roles    []Role    `json:"roles"`
	Products []Product `json:"products"`
	Events   []Event   `json:"events"`
}
