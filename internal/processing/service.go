package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/availlant/fieldscan/internal/estimator"
	"github.com/availlant/fieldscan/internal/repository"
	"github.com/availlant/fieldscan/internal/scanfile"
	"github.com/availlant/fieldscan/internal/storage"
	"github.com/availlant/fieldscan/pkg/models"
)

// Object keys under a scan's S3 prefix, one per probe orientation.
// The suffixes mirror the file naming convention of the scanning rig.
const (
	Key0Deg  = "_0d.json"
	Key45Deg = "_45d.json"
	Key90Deg = "_90d.json"
)

// EstimationService runs direction estimation for an uploaded scan.
type EstimationService interface {
	EstimateScan(ctx context.Context, scanID uuid.UUID, method estimator.Method) error
}

type estimationService struct {
	s3         storage.S3Service
	repository repository.ScanRepository
	workers    int
}

// NewEstimationService creates a new estimation service
func NewEstimationService(s3Service storage.S3Service, repo repository.ScanRepository, workers int) EstimationService {
	return &estimationService{
		s3:         s3Service,
		repository: repo,
		workers:    workers,
	}
}

// EstimateScan downloads the three orientation files for a scan, merges
// them into one grid, estimates the direction field and stores the
// results. Data problems (missing files, malformed JSON, mismatched
// grids, missing orientations) mark the scan failed without returning an
// error; only infrastructure failures propagate.
func (s *estimationService) EstimateScan(ctx context.Context, scanID uuid.UUID, method estimator.Method) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, scanID, "processing", 10); err != nil {
		return err
	}

	// Step 2: Get scan details
	scan, err := s.repository.GetByID(ctx, scanID)
	if err != nil {
		return err
	}
	if scan.S3KeyPrefix == nil {
		s.repository.UpdateError(ctx, scanID, "Scan has no uploaded files")
		return nil
	}

	// Step 3: Download the orientation files
	if err := s.repository.UpdateStatus(ctx, scanID, "processing", 20); err != nil {
		return err
	}

	docs := make(map[string]*scanfile.Document, 3)
	for _, suffix := range []string{Key0Deg, Key45Deg, Key90Deg} {
		data, err := s.s3.DownloadFile(ctx, *scan.S3KeyPrefix+suffix)
		if err != nil {
			s.repository.UpdateError(ctx, scanID, fmt.Sprintf("Failed to download %s orientation file", suffix))
			return nil
		}

		doc, err := scanfile.Parse(data)
		if err != nil {
			s.repository.UpdateError(ctx, scanID, fmt.Sprintf("Invalid scan file %s: %v", suffix, err))
			return nil
		}
		docs[suffix] = doc
	}

	// Step 4: Merge orientations into one grid
	if err := s.repository.UpdateStatus(ctx, scanID, "processing", 50); err != nil {
		return err
	}

	grid, err := scanfile.Merge(docs[Key0Deg], docs[Key45Deg], docs[Key90Deg])
	if err != nil {
		s.repository.UpdateError(ctx, scanID, fmt.Sprintf("Failed to merge orientation scans: %v", err))
		return nil
	}

	// Step 5: Estimate the direction field
	if err := s.repository.UpdateStatus(ctx, scanID, "processing", 80); err != nil {
		return err
	}

	start := time.Now()
	estimates, err := estimator.EstimateGrid(ctx, grid.Points, method, s.workers)
	if err != nil {
		s.repository.UpdateError(ctx, scanID, fmt.Sprintf("Estimation failed: %v", err))
		return nil
	}

	validCount := 0
	for _, e := range estimates {
		if e.Valid {
			validCount++
		}
	}

	log.Info().
		Str("scanID", scanID.String()).
		Int("points", len(estimates)).
		Int("valid", validCount).
		Dur("elapsed", time.Since(start)).
		Msg("Direction field estimated")

	// Step 6: Store results
	if err := s.repository.UpdateStatus(ctx, scanID, "processing", 90); err != nil {
		return err
	}

	results := &models.ScanResults{
		ID:              uuid.New().String(),
		ScanID:          scan.ID,
		Points:          estimates,
		PointCount:      len(estimates),
		ValidCount:      validCount,
		DegenerateCount: len(estimates) - validCount,
		CreatedAt:       time.Now(),
	}

	if err := s.repository.StoreResults(ctx, results); err != nil {
		return err
	}

	// Step 7: Mark complete
	return s.repository.UpdateStatus(ctx, scanID, "completed", 100)
}
