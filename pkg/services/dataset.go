package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/adapters/workbook"
	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/repositories"
	"github.com/capintel/portfolio-engine/pkg/retry"
)

// DatasetService provides the current entity store, re-parsing the
// workbook only when the source file changes.
type DatasetService interface {
	// Dataset returns the dataset for the workbook as it exists on
	// disk right now. A missing or unreadable file is a load failure;
	// no partial dataset is ever returned.
	Dataset(ctx context.Context) (*repositories.Dataset, error)
}

type datasetService struct {
	path   string
	reader workbook.Reader
	logger *zap.Logger

	mu     sync.Mutex
	cached *repositories.Dataset
}

// NewDatasetService creates a DatasetService over the workbook at path.
func NewDatasetService(path string, reader workbook.Reader, logger *zap.Logger) DatasetService {
	return &datasetService{
		path:   path,
		reader: reader,
		logger: logger,
	}
}

// Dataset returns the memoized dataset, rebuilding it when the file
// signature (path, mtime, size) no longer matches. The rebuild holds
// the mutex so concurrent requests never parse the same file twice.
func (s *datasetService) Dataset(ctx context.Context) (*repositories.Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLoadFailed, err)
	}
	sig := repositories.Signature{
		Path:    s.path,
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.cached.Signature() == sig {
		return s.cached, nil
	}

	// The exporter replaces the file in place; a read that lands
	// mid-replacement fails transiently and is worth retrying.
	var raw *workbook.RawWorkbook
	if err := retry.Do(ctx, nil, func() error {
		var readErr error
		raw, readErr = s.reader.Read(s.path)
		return readErr
	}); err != nil {
		return nil, err
	}
	tables, err := workbook.Normalize(raw, s.logger)
	if err != nil {
		return nil, err
	}

	ds := repositories.NewDataset(sig, tables)
	s.cached = ds
	s.logger.Info("Workbook loaded",
		zap.String("path", s.path),
		zap.Int("projects", len(ds.AllProjects())),
		zap.Int("roles", len(ds.AllRoles())),
		zap.Bool("has_events", ds.HasEvents()),
		zap.Bool("has_products", ds.HasProducts()))
	return ds, nil
}

var _ DatasetService = (*datasetService)(nil)
