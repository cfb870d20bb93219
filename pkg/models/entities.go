// Package models contains domain types for portfolio-engine.
package models

import "time"

// Sheet names in the workbook export. A missing sheet disables the
// corresponding entity collection.
const (
	SheetProjects = "Projects"
	SheetRoles    = "Projects with Roles"
	SheetEvents   = "Projects with Events"
	SheetProducts = "Projects with Products"
)

// RoleOwner is the role type that identifies a project's client company.
const RoleOwner = "Owner"

// Project is one row of the Projects fact sheet after normalization.
// ID is the canonical project identifier shared by all four collections;
// an empty ID means the source value was unparseable and the row is
// unreachable through id-rooted queries. OldID is the deprecated
// historical identifier, preserved for display but never used for joins.
type Project struct {
	ID             string  `json:"id"`
	OldID          string  `json:"old_id,omitempty"`
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	Sector         string  `json:"sector"`
	Status         string  `json:"status"`
	AwardYear      *int    `json:"award_year"`
	CompletionYear *int    `json:"completion_year"`
	NetValue       float64 `json:"net_value"`
}

// Role is one stakeholder row. ProjectID is a loose foreign key: rows
// referencing an unknown project are tolerated and simply unreachable.
type Role struct {
	ProjectID   string `json:"project_id"`
	RoleType    string `json:"role_type"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
}

// Product is one delivered-product row.
type Product struct {
	ProjectID   string  `json:"project_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
}

// Event is one timeline row. Date is nil when the source value was
// unparseable; consumers sorting by date must place nil dates last.
type Event struct {
	ProjectID string     `json:"project_id"`
	Date      *time.Time `json:"date"`
	EventType string     `json:"event_type"`
}
