// Package scanfile reads the JSON documents produced by the scanning rig.
// One document holds the measurements of a single probe orientation: a
// metadata block describing the capture conditions and a row-major list
// of points with x, y in meters and field_strength in dBm. Older rigs
// wrote a bare JSON array of points with no metadata; both forms load.
package scanfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/availlant/fieldscan/pkg/models"
)

// Orientation labels match the file naming convention of the scanning
// rig (scan_..._0d.json, _45d.json, _90d.json).
const (
	Orientation0  = "0deg"
	Orientation45 = "45deg"
	Orientation90 = "90deg"
)

// ErrCombinedInput indicates a combined-orientation document was offered
// as an orientation input. Combined files have had their per-angle
// separation folded away and cannot feed direction estimation.
var ErrCombinedInput = errors.New("combined-orientation file is not a valid estimator input")

// ErrGridMismatch indicates the orientation documents do not share the
// same grid.
var ErrGridMismatch = errors.New("orientation scans cover different grids")

// Point is one measurement in a scan document.
type Point struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	FieldStrength float64 `json:"field_strength"`
}

// Document is a parsed single-orientation scan file.
type Document struct {
	Metadata models.ScanMetadata `json:"metadata"`
	Results  []Point             `json:"results"`
}

// Parse decodes a scan document, accepting both the current object form
// and the legacy bare-array form.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Results != nil {
		if isCombined(doc.Metadata.FileName) {
			return nil, ErrCombinedInput
		}
		return &doc, nil
	}

	// Legacy format: a flat list of results, no metadata.
	var results []Point
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("scan file is neither an object with results nor a result list: %w", err)
	}
	return &Document{Results: results}, nil
}

// Merge folds per-orientation documents into one grid. All supplied
// documents must cover identical (x, y) sequences; every grid point ends
// up with the same subset of orientations, which is what makes missing
// orientation checks uniform downstream. A nil document drops that
// orientation from every point.
func Merge(doc0, doc45, doc90 *Document) (*models.ScanGrid, error) {
	ref := doc0
	if ref == nil {
		return nil, errors.New("0deg scan is required")
	}

	for label, doc := range map[string]*Document{Orientation45: doc45, Orientation90: doc90} {
		if doc == nil {
			continue
		}
		if len(doc.Results) != len(ref.Results) {
			return nil, fmt.Errorf("%s scan has %d points, 0deg has %d: %w",
				label, len(doc.Results), len(ref.Results), ErrGridMismatch)
		}
		for i, p := range doc.Results {
			if p.X != ref.Results[i].X || p.Y != ref.Results[i].Y {
				return nil, fmt.Errorf("%s scan point %d is at (%g, %g), expected (%g, %g): %w",
					label, i, p.X, p.Y, ref.Results[i].X, ref.Results[i].Y, ErrGridMismatch)
			}
		}
	}

	grid := &models.ScanGrid{
		Metadata: ref.Metadata,
		Points:   make([]models.GridPoint, len(ref.Results)),
	}
	for i, p := range ref.Results {
		v := p.FieldStrength
		grid.Points[i] = models.GridPoint{X: p.X, Y: p.Y, P0DBm: &v}
		if doc45 != nil {
			v45 := doc45.Results[i].FieldStrength
			grid.Points[i].P45DBm = &v45
		}
		if doc90 != nil {
			v90 := doc90.Results[i].FieldStrength
			grid.Points[i].P90DBm = &v90
		}
	}
	return grid, nil
}

func isCombined(fileName string) bool {
	return strings.Contains(fileName, "_combined")
}
