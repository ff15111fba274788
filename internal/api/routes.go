package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/availlant/fieldscan/internal/api/handlers"
	"github.com/availlant/fieldscan/internal/estimator"
	"github.com/availlant/fieldscan/internal/processing"
	"github.com/availlant/fieldscan/internal/repository"
	"github.com/availlant/fieldscan/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, s3Service storage.S3Service, scanRepo repository.ScanRepository, estimationSvc processing.EstimationService, defaultMethod estimator.Method) {
	// Initialize handlers
	scanHandler := handlers.NewScanHandler(scanRepo, s3Service, estimationSvc, defaultMethod)

	// Register scan routes
	huma.Register(api, huma.Operation{
		OperationID: "createScan",
		Method:      http.MethodPost,
		Path:        "/api/scans",
		Summary:     "Register a new scan",
		Description: "Creates a new scan record and returns upload URLs for the three orientation files",
		Tags:        []string{"Scan"},
	}, scanHandler.CreateScan)

	huma.Register(api, huma.Operation{
		OperationID: "getScanStatus",
		Method:      http.MethodGet,
		Path:        "/api/scans/{id}/status",
		Summary:     "Get scan status",
		Description: "Returns the current status and progress of a scan's estimation",
		Tags:        []string{"Scan"},
	}, scanHandler.GetScanStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getScanResults",
		Method:      http.MethodGet,
		Path:        "/api/scans/{id}/results",
		Summary:     "Get the direction field",
		Description: "Returns the estimated per-point current directions and magnitudes",
		Tags:        []string{"Scan"},
	}, scanHandler.GetScanResults)

	huma.Register(api, huma.Operation{
		OperationID: "startEstimation",
		Method:      http.MethodPost,
		Path:        "/api/scans/{id}/estimate",
		Summary:     "Start direction estimation",
		Description: "Starts estimating the direction field from the uploaded orientation files",
		Tags:        []string{"Scan"},
	}, scanHandler.StartEstimation)
}
