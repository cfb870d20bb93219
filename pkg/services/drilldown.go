package services

import (
	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
)

// DrilldownService assembles the single-project detail bundle.
type DrilldownService interface {
	// Resolve looks the id up in the supplied project view (which may
	// already be filtered) and slices the related collections through
	// the dataset's id indexes. Returns apperrors.ErrNotFound when the
	// id is absent from the view.
	Resolve(ds *repositories.Dataset, view []models.Project, id string) (*models.DrilldownBundle, error)
}

type drilldownService struct{}

// NewDrilldownService creates a DrilldownService.
func NewDrilldownService() DrilldownService {
	return &drilldownService{}
}

func (d *drilldownService) Resolve(ds *repositories.Dataset, view []models.Project, id string) (*models.DrilldownBundle, error) {
	var project *models.Project
	for i := range view {
		if view[i].ID == id && id != "" {
			project = &view[i]
			break
		}
	}
	if project == nil {
		return nil, apperrors.ErrNotFound
	}

	// The store's slices are shared; events get copied because the
	// bundle sorts them.
	events := append([]models.Event(nil), ds.EventsFor(id)...)
	sortEventsByDate(events)

	return &models.DrilldownBundle{
		Project:  *project,
		Roles:    ds.RolesFor(id),
		Products: ds.ProductsFor(id),
		Events:   events,
	}, nil
}

var _ DrilldownService = (*drilldownService)(nil)
