package models

import (
	"time"
)

// GridPoint is a single probe position with up to three power readings,
// one per probe orientation. Coordinates are in meters, readings in dBm.
// A nil reading means that orientation was not scanned at this point.
type GridPoint struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	P0DBm  *float64 `json:"p0_dbm,omitempty"`
	P45DBm *float64 `json:"p45_dbm,omitempty"`
	P90DBm *float64 `json:"p90_dbm,omitempty"`
}

// ScanMetadata describes the conditions one scan was captured under.
// All points of a scan share one frequency and one spatial resolution.
type ScanMetadata struct {
	PCBWidthCm   float64 `json:"pcb_width_cm,omitempty"`
	PCBHeightCm  float64 `json:"pcb_height_cm,omitempty"`
	Resolution   float64 `json:"resolution,omitempty"` // points per centimeter
	CenterFreqHz float64 `json:"center_freq,omitempty"`
	BandwidthHz  float64 `json:"bw,omitempty"`
	NumAverages  int     `json:"nb_average,omitempty"`
	FileName     string  `json:"file_name,omitempty"`
}

// ScanGrid is a merged multi-orientation scan: row-major grid points, all
// carrying the same subset of orientations, plus shared capture metadata.
type ScanGrid struct {
	Metadata ScanMetadata `json:"metadata"`
	Points   []GridPoint  `json:"points"`
}

// PointEstimate is the per-point output of direction estimation. Theta is
// in radians in [-pi, pi), U/V are the unit direction components, and
// IntensityDBm is the combined 0/90 power. Valid is false for degenerate
// points, which keep zero direction and magnitude.
type PointEstimate struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Theta        float64 `json:"theta"`
	Magnitude    float64 `json:"magnitude"`
	U            float64 `json:"u"`
	V            float64 `json:"v"`
	IntensityDBm float64 `json:"intensity_dbm"`
	Valid        bool    `json:"valid"`
}

// Scan represents the core scan entity (for internal use)
type Scan struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	Method       string     `json:"method"`
	CenterFreqHz float64    `json:"center_freq_hz"`
	Resolution   float64    `json:"resolution"`
	S3KeyPrefix  *string    `json:"s3_key_prefix,omitempty"`
	ErrorMsg     *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ScanResults represents the stored estimation results for one scan
type ScanResults struct {
	ID              string          `json:"id"`
	ScanID          string          `json:"scan_id"`
	Points          []PointEstimate `json:"points"`
	PointCount      int             `json:"point_count"`
	ValidCount      int             `json:"valid_count"`
	DegenerateCount int             `json:"degenerate_count"`
	CreatedAt       time.Time       `json:"created_at"`
}
