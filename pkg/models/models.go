package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateScanRequest represents a request to register a new scan
type CreateScanRequest struct {
	Body struct {
		SessionID    string  `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		FileSize     int64   `json:"file_size" minimum:"100" maximum:"52428800" required:"true" doc:"Size in bytes of the largest orientation file"`
		MimeType     string  `json:"mime_type" enum:"application/json" required:"true" doc:"Scan file MIME type"`
		CenterFreqHz float64 `json:"center_freq_hz" required:"true" doc:"Capture center frequency in Hz"`
		Resolution   float64 `json:"resolution" doc:"Spatial resolution in points per centimeter"`
	}
}

// UploadTarget is a presigned upload URL for one probe orientation file
type UploadTarget struct {
	Orientation string `json:"orientation" enum:"0deg,45deg,90deg" doc:"Probe orientation the file was captured at"`
	UploadURL   string `json:"upload_url" doc:"Pre-signed S3 URL for file upload"`
}

// CreateScanResponseBody is the body of the create scan response
type CreateScanResponseBody struct {
	ID        string         `json:"id" doc:"Scan unique identifier"`
	Uploads   []UploadTarget `json:"uploads" doc:"Pre-signed upload URLs, one per orientation"`
	ExpiresIn int            `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateScanResponse represents the response from registering a scan
type CreateScanResponse struct {
	Body CreateScanResponseBody
}

// StartEstimationRequest represents a request to start estimating an uploaded scan
type StartEstimationRequest struct {
	ID   string `path:"id" doc:"Scan ID"`
	Body struct {
		Method string `json:"method,omitempty" enum:"difference,ratio" doc:"Estimation method (difference is the default)"`
	}
}

// StartEstimationResponse represents the response from starting estimation
type StartEstimationResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetScanStatusRequest represents a request to get scan status
type GetScanStatusRequest struct {
	ID string `path:"id" doc:"Scan ID"`
}

// GetScanStatusResponseBody is the body of the status response
type GetScanStatusResponseBody struct {
	ID        string  `json:"id" doc:"Scan ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Estimation status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Estimation progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when estimation completes"`
}

// GetScanStatusResponse represents the current status of a scan
type GetScanStatusResponse struct {
	Body GetScanStatusResponseBody
}

// GetScanResultsRequest represents a request to get the direction field
type GetScanResultsRequest struct {
	ID string `path:"id" doc:"Scan ID"`
}

// GetScanResultsResponseBody is the body of the results response
type GetScanResultsResponseBody struct {
	ID              string          `json:"id" doc:"Scan ID"`
	Points          []PointEstimate `json:"points" doc:"Per-point direction estimates, row-major"`
	PointCount      int             `json:"point_count" doc:"Total number of grid points"`
	ValidCount      int             `json:"valid_count" doc:"Points with a defined direction"`
	DegenerateCount int             `json:"degenerate_count" doc:"Points with zero power at all orientations"`
	CenterFreqHz    float64         `json:"center_freq_hz" doc:"Capture center frequency in Hz"`
	Resolution      float64         `json:"resolution" doc:"Spatial resolution in points per centimeter"`
	CreatedAt       time.Time       `json:"created_at" doc:"Results creation timestamp"`
}

// GetScanResultsResponse represents the complete direction field for a scan
type GetScanResultsResponse struct {
	Body GetScanResultsResponseBody
}
