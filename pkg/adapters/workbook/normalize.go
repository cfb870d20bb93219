package workbook

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/models"
)

// Canonical column names after header cleanup. The two identifier
// columns arrive under historical names with a space; both are renamed,
// but only the canonical new id is used for joins and filters.
const (
	colNewID          = "New_ProjectId"
	colOldID          = "Old_ProjectId"
	colProjectName    = "Project"
	colCountry        = "Country"
	colSector         = "Sector"
	colStatus         = "ProjectStatus"
	colAwardYear      = "AwardYear"
	colCompletionYear = "CompletionYear"
	colNetValue       = "Net Project Value ($m)"
	colRoleType       = "Role"
	colCompanyName    = "CompanyName"
	colContactName    = "Contact Name"
	colProductName    = "Product"
	colQuantity       = "Quantity"
	colEventDate      = "EventDate"
	colEventType      = "EventType"
)

// headerRenames maps cleaned historical headers to canonical names.
var headerRenames = map[string]string{
	"New ProjectId": colNewID,
	"Old ProjectId": colOldID,
}

// Tables holds the four normalized entity collections. The Has flags
// record sheet presence: an absent sheet leaves its collection empty
// and inactive, which downstream components treat as "no data", never
// as an error.
type Tables struct {
	Projects    []models.Project
	HasProjects bool
	Roles       []models.Role
	HasRoles    bool
	Events      []models.Event
	HasEvents   bool
	Products    []models.Product
	HasProducts bool
}

// Normalize converts the raw workbook tables into typed entity
// collections under the canonical column contract. Per-cell coercion
// failures degrade to defaults (0 for money and quantities, nil for
// years and dates, empty string for identifiers) and never abort the
// load. A Projects sheet that lacks an identifier column under either
// historical name is a load failure.
func Normalize(raw *RawWorkbook, logger *zap.Logger) (*Tables, error) {
	t := &Tables{}

	if raw.Projects != nil {
		cols := columnIndex(raw.Projects.Headers)
		if _, ok := cols[colNewID]; !ok {
			return nil, apperrors.ErrMissingIDColumn
		}
		t.HasProjects = true
		for _, row := range raw.Projects.Rows {
			year := parseYear(cell(row, cols, colAwardYear))
			completion := parseYear(cell(row, cols, colCompletionYear))
			t.Projects = append(t.Projects, models.Project{
				ID:             parseID(cell(row, cols, colNewID)),
				OldID:          parseID(cell(row, cols, colOldID)),
				Name:           cell(row, cols, colProjectName),
				Country:        cell(row, cols, colCountry),
				Sector:         cell(row, cols, colSector),
				Status:         cell(row, cols, colStatus),
				AwardYear:      year,
				CompletionYear: completion,
				NetValue:       parseNumber(cell(row, cols, colNetValue)),
			})
		}
	}

	if raw.Roles != nil {
		cols := columnIndex(raw.Roles.Headers)
		warnMissingID(raw.Roles, cols, logger)
		t.HasRoles = true
		for _, row := range raw.Roles.Rows {
			t.Roles = append(t.Roles, models.Role{
				ProjectID:   parseID(cell(row, cols, colNewID)),
				RoleType:    cell(row, cols, colRoleType),
				CompanyName: cell(row, cols, colCompanyName),
				ContactName: cell(row, cols, colContactName),
			})
		}
	}

	if raw.Events != nil {
		cols := columnIndex(raw.Events.Headers)
		warnMissingID(raw.Events, cols, logger)
		t.HasEvents = true
		for _, row := range raw.Events.Rows {
			t.Events = append(t.Events, models.Event{
				ProjectID: parseID(cell(row, cols, colNewID)),
				Date:      parseDate(cell(row, cols, colEventDate)),
				EventType: cell(row, cols, colEventType),
			})
		}
	}

	if raw.Products != nil {
		cols := columnIndex(raw.Products.Headers)
		warnMissingID(raw.Products, cols, logger)
		t.HasProducts = true
		for _, row := range raw.Products.Rows {
			t.Products = append(t.Products, models.Product{
				ProjectID:   parseID(cell(row, cols, colNewID)),
				ProductName: cell(row, cols, colProductName),
				Quantity:    parseNumber(cell(row, cols, colQuantity)),
			})
		}
	}

	return t, nil
}

// columnIndex cleans each header and maps canonical names to column
// positions. Cleaning replaces non-breaking spaces with ordinary spaces
// and trims surrounding whitespace; matching after that is exact, not
// fuzzy. The first occurrence wins on duplicate headers.
func columnIndex(headers []string) map[string]int {
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		name := cleanHeader(h)
		if canonical, ok := headerRenames[name]; ok {
			name = canonical
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

func cleanHeader(h string) string {
	return strings.TrimSpace(strings.ReplaceAll(h, "\u00a0", " "))
}

// cell returns the trimmed value of the named column, or "" when the
// column is unknown or the row is short.
func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func warnMissingID(table *RawTable, cols map[string]int, logger *zap.Logger) {
	if _, ok := cols[colNewID]; !ok {
		// Rows without a resolvable id are kept but unreachable from
		// project-rooted queries.
		logger.Warn("Sheet has no project identifier column",
			zap.String("sheet", table.Name))
	}
}

// parseID coerces an identifier cell to its canonical string form.
// Numeric cells lose any float formatting ("1234.0" becomes "1234");
// anything unparseable as a number is kept verbatim. Empty means
// unknown.
func parseID(s string) string {
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// parseNumber coerces monetary and quantity cells to float64. The
// missing-value policy for aggregation math is "no value = 0", so any
// failure yields 0, never a null.
func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseYear coerces a year cell to a nullable int. Unparseable values
// are unknown (nil), unlike money where they collapse to 0.
func parseYear(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	y := int(f)
	return &y
}

// excelEpoch is day zero of the 1900 date system used by .xlsx files.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are the textual date formats accepted in event cells.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/2006",
	"2006/01/02",
	"2-Jan-06",
	"Jan 2, 2006",
}

// parseDate coerces a date cell to a nullable time. Cells may carry a
// formatted date string or a raw Excel serial number; anything else is
// unknown (nil) and sorts last.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		d := excelEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
		return &d
	}
	return nil
}
