package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/availlant/fieldscan/internal/estimator"
	"github.com/availlant/fieldscan/internal/processing"
	"github.com/availlant/fieldscan/internal/repository"
	"github.com/availlant/fieldscan/internal/scanfile"
	"github.com/availlant/fieldscan/internal/storage"
	"github.com/availlant/fieldscan/pkg/models"
)

// ScanHandler handles scan-related HTTP requests
type ScanHandler struct {
	repo          repository.ScanRepository
	s3Service     storage.S3Service
	estimationSvc processing.EstimationService
	defaultMethod estimator.Method
}

// NewScanHandler creates a new scan handler
func NewScanHandler(repo repository.ScanRepository, s3Service storage.S3Service, estimationSvc processing.EstimationService, defaultMethod estimator.Method) *ScanHandler {
	return &ScanHandler{
		repo:          repo,
		s3Service:     s3Service,
		estimationSvc: estimationSvc,
		defaultMethod: defaultMethod,
	}
}

// CreateScan registers a new scan and returns upload URLs for the three
// orientation files
func (h *ScanHandler) CreateScan(ctx context.Context, req *models.CreateScanRequest) (*models.CreateScanResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("sessionID", req.Body.SessionID).Float64("centerFreqHz", req.Body.CenterFreqHz).Msg("Registering new scan")

	scanID := uuid.New()
	keyPrefix := fmt.Sprintf("scans/%s", scanID)

	// Validate file size explicitly
	if req.Body.FileSize < 100 {
		return nil, huma.Error400BadRequest("Scan file too small. Did the rig write any points?", nil)
	}
	if req.Body.FileSize > 50*1024*1024 {
		return nil, huma.Error400BadRequest("Scan file too large. Reduce the grid resolution.", nil)
	}

	// One presigned URL per probe orientation
	uploads := make([]models.UploadTarget, 0, 3)
	for _, target := range []struct {
		orientation string
		suffix      string
	}{
		{scanfile.Orientation0, processing.Key0Deg},
		{scanfile.Orientation45, processing.Key45Deg},
		{scanfile.Orientation90, processing.Key90Deg},
	} {
		uploadURL, err := h.s3Service.GenerateUploadURL(ctx, keyPrefix+target.suffix, req.Body.MimeType)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "invalid content type") {
				return nil, huma.Error400BadRequest("Scan files must be JSON documents.", err)
			}
			return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
		}
		uploads = append(uploads, models.UploadTarget{
			Orientation: target.orientation,
			UploadURL:   uploadURL,
		})
	}

	scan := &models.Scan{
		ID:           scanID.String(),
		SessionID:    req.Body.SessionID,
		Status:       "pending",
		Progress:     0,
		Method:       string(h.defaultMethod),
		CenterFreqHz: req.Body.CenterFreqHz,
		Resolution:   req.Body.Resolution,
		S3KeyPrefix:  &keyPrefix,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.repo.Create(ctx, scan); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create scan", err)
	}
	log.Info().Str("scanID", scanID.String()).Msg("Scan registered")

	return &models.CreateScanResponse{
		Body: models.CreateScanResponseBody{
			ID:        scan.ID,
			Uploads:   uploads,
			ExpiresIn: int((15 * time.Minute).Seconds()), // 15 minutes
		},
	}, nil
}

// GetScanStatus returns the current status of a scan
func (h *ScanHandler) GetScanStatus(ctx context.Context, req *models.GetScanStatusRequest) (*models.GetScanStatusResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	scan, err := h.repo.GetByID(ctx, scanID)
	if err != nil {
		return nil, huma.Error404NotFound("Scan not found", err)
	}

	message := h.generateStatusMessage(scan.Status, scan.Progress)

	var resultsID *string
	if scan.Status == "completed" {
		results, err := h.repo.GetResults(ctx, scanID)
		if err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	log.Info().Str("scanID", scan.ID).Str("status", scan.Status).Int("progress", scan.Progress).Msg("Returning scan status")
	return &models.GetScanStatusResponse{
		Body: models.GetScanStatusResponseBody{
			ID:        scan.ID,
			Status:    scan.Status,
			Progress:  scan.Progress,
			Message:   message,
			ResultsID: resultsID,
		},
	}, nil
}

// GetScanResults returns the estimated direction field
func (h *ScanHandler) GetScanResults(ctx context.Context, req *models.GetScanResultsRequest) (*models.GetScanResultsResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	scan, err := h.repo.GetByID(ctx, scanID)
	if err != nil {
		return nil, huma.Error404NotFound("Scan not found", err)
	}

	if scan.Status != "completed" {
		return nil, huma.Error409Conflict("Estimation not yet completed",
			fmt.Errorf("scan status is %s", scan.Status))
	}

	results, err := h.repo.GetResults(ctx, scanID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	return &models.GetScanResultsResponse{
		Body: models.GetScanResultsResponseBody{
			ID:              results.ID,
			Points:          results.Points,
			PointCount:      results.PointCount,
			ValidCount:      results.ValidCount,
			DegenerateCount: results.DegenerateCount,
			CenterFreqHz:    scan.CenterFreqHz,
			Resolution:      scan.Resolution,
			CreatedAt:       results.CreatedAt,
		},
	}, nil
}

// StartEstimation starts estimating an uploaded scan
func (h *ScanHandler) StartEstimation(ctx context.Context, req *models.StartEstimationRequest) (*models.StartEstimationResponse, error) {
	log.Info().Str("scanID", req.ID).Str("method", req.Body.Method).Msg("Estimation start request received")
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	method := h.defaultMethod
	if req.Body.Method != "" {
		method, err = estimator.ParseMethod(req.Body.Method)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid estimation method", err)
		}
	}

	// Verify scan exists
	_, err = h.repo.GetByID(ctx, scanID)
	if err != nil {
		return nil, huma.Error404NotFound("Scan not found", err)
	}

	// Start estimation in background (don't wait for completion)
	go func() {
		err := h.estimationSvc.EstimateScan(context.Background(), scanID, method)
		if err != nil {
			h.repo.UpdateError(context.Background(), scanID, fmt.Sprintf("Estimation failed: %v", err))
		}
	}()

	return &models.StartEstimationResponse{
		Body: struct {
			Message string `json:"message" doc:"Confirmation message"`
		}{
			Message: "Estimation started successfully",
		},
	}, nil
}

// generateStatusMessage creates a human-readable status message
func (h *ScanHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case "pending":
		return "Scan queued for estimation..."
	case "processing":
		if progress < 25 {
			return "Starting estimation..."
		} else if progress < 55 {
			return "Downloading orientation files..."
		} else if progress < 85 {
			return "Estimating current directions..."
		} else {
			return "Storing results..."
		}
	case "completed":
		return "Estimation complete!"
	case "failed":
		return "Estimation failed. Please try again."
	default:
		return "Unknown status"
	}
}
