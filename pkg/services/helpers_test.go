package services

import (
	"time"

	"github.com/capintel/portfolio-engine/pkg/adapters/workbook"
	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
)

func intp(v int) *int { return &v }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// fixtureDataset is the shared corpus for the service tests: four
// projects across two countries and two sectors, with roles, products
// and events hanging off them.
func fixtureDataset() *repositories.Dataset {
	return repositories.NewDataset(repositories.Signature{Path: "fixture"}, &workbook.Tables{
		Projects: []models.Project{
			{ID: "1", Name: "Coastal Desalination", Country: "Kenya", Sector: "Water", Status: "Active", AwardYear: intp(2019), NetValue: 120},
			{ID: "2", Name: "Grid Upgrade", Country: "Ghana", Sector: "Power", Status: "Complete", AwardYear: intp(2018), NetValue: 300},
			{ID: "3", Name: "River Intake", Country: "Kenya", Sector: "Water", Status: "Complete", AwardYear: intp(2019), NetValue: 80},
			{ID: "4", Name: "Legacy Dam", Country: "Kenya", Sector: "Water", Status: "Active", AwardYear: nil, NetValue: 50},
		},
		HasProjects: true,
		Roles: []models.Role{
			{ProjectID: "1", RoleType: "Owner", CompanyName: "AquaCorp"},
			{ProjectID: "1", RoleType: "Contractor", CompanyName: "BuildCo"},
			{ProjectID: "2", RoleType: "Owner", CompanyName: "PowerHold"},
			{ProjectID: "3", RoleType: "Owner", CompanyName: "AquaCorp"},
			{ProjectID: "3", RoleType: "Consultant", CompanyName: "BuildCo"},
		},
		HasRoles: true,
		Products: []models.Product{
			{ProjectID: "1", ProductName: "Membrane Unit", Quantity: 4},
			{ProjectID: "2", ProductName: "Turbine", Quantity: 2},
			{ProjectID: "3", ProductName: "Membrane Unit", Quantity: 1},
		},
		HasProducts: true,
		Events: []models.Event{
			{ProjectID: "1", Date: datePtr(2020, 6, 1), EventType: "Groundbreaking"},
			{ProjectID: "1", Date: nil, EventType: "Unknown"},
			{ProjectID: "2", Date: datePtr(2019, 3, 15), EventType: "Award"},
			{ProjectID: "3", Date: datePtr(2020, 6, 1), EventType: "Award"},
		},
		HasEvents: true,
	})
}

// bareDataset has projects only; every related sheet is absent.
func bareDataset(projects ...models.Project) *repositories.Dataset {
	return repositories.NewDataset(repositories.Signature{Path: "bare"}, &workbook.Tables{
		Projects:    projects,
		HasProjects: true,
	})
}
