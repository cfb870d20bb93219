package handlers

import (
	"context"
	"net/http"

	"github.com/capintel/portfolio-engine/pkg/adapters/workbook"
	"github.com/capintel/portfolio-engine/pkg/auth"
	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
)

// mockDatasetService returns a fixed dataset or error.
type mockDatasetService struct {
	ds  *repositories.Dataset
	err error
}

func (m *mockDatasetService) Dataset(context.Context) (*repositories.Dataset, error) {
	return m.ds, m.err
}

// spyViewCache records Put calls and optionally serves a canned hit.
type spyViewCache struct {
	hit  *models.DashboardView
	puts int
}

func (c *spyViewCache) Get(context.Context, repositories.Signature, models.FilterSpec) (*models.DashboardView, bool) {
	return c.hit, c.hit != nil
}

func (c *spyViewCache) Put(context.Context, repositories.Signature, models.FilterSpec, *models.DashboardView) {
	c.puts++
}

// mockAuthService resolves every request to a fixed outcome.
type mockAuthService struct {
	id  *auth.Identity
	err error
}

func (m *mockAuthService) ValidateRequest(*http.Request) (*auth.Identity, error) {
	return m.id, m.err
}

func (m *mockAuthService) ExchangeToken(string) (*auth.Identity, error) {
	return m.id, m.err
}

func intp(v int) *int { return &v }

// fixtureDataset is the corpus served by the handler tests.
func fixtureDataset() *repositories.Dataset {
	return repositories.NewDataset(repositories.Signature{Path: "fixture"}, &workbook.Tables{
		Projects: []models.Project{
			{ID: "1", Name: "Coastal Desalination", Country: "Kenya", Sector: "Water", Status: "Active", AwardYear: intp(2019), NetValue: 120},
			{ID: "2", Name: "Grid Upgrade", Country: "Ghana", Sector: "Power", Status: "Complete", AwardYear: intp(2018), NetValue: 300},
		},
		HasProjects: true,
		Roles: []models.Role{
			{ProjectID: "1", RoleType: "Owner", CompanyName: "AquaCorp"},
		},
		HasRoles: true,
	})
}
