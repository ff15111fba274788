package estimator

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/availlant/fieldscan/pkg/models"
)

// EstimateGrid runs the estimator over every point of a merged scan grid.
// Points are independent, so work is split into chunks processed in
// parallel; each output estimate depends only on its own point's readings
// and the method, so results are deterministic regardless of scheduling.
//
// Any point missing one of the three orientations aborts the batch with
// ErrMissingOrientation: the merge step guarantees a uniform orientation
// subset, so a missing reading means the scan as a whole cannot be
// estimated. Degenerate points are kept but flagged invalid.
func EstimateGrid(ctx context.Context, points []models.GridPoint, m Method, workers int) ([]models.PointEstimate, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	estimates := make([]models.PointEstimate, len(points))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := len(points)/workers + 1
	for start := 0; start < len(points); start += chunk {
		end := start + chunk
		if end > len(points) {
			end = len(points)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				if err := estimateInto(&estimates[i], points[i], m); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return estimates, nil
}

func estimateInto(out *models.PointEstimate, pt models.GridPoint, m Method) error {
	if pt.P0DBm == nil || pt.P45DBm == nil || pt.P90DBm == nil {
		return fmt.Errorf("point (%g, %g): %w", pt.X, pt.Y, ErrMissingOrientation)
	}

	est, err := Estimate(*pt.P0DBm, *pt.P45DBm, *pt.P90DBm, m)
	switch {
	case err == nil:
		*out = models.PointEstimate{
			X:            pt.X,
			Y:            pt.Y,
			Theta:        est.Theta,
			Magnitude:    est.Magnitude,
			U:            est.U,
			V:            est.V,
			IntensityDBm: CombineIntensity(*pt.P0DBm, *pt.P90DBm),
			Valid:        true,
		}
	case errors.Is(err, ErrDegenerateMeasurement):
		// Recoverable: keep the point with zeroed direction so the output
		// grid stays aligned with the input grid.
		*out = models.PointEstimate{X: pt.X, Y: pt.Y}
	default:
		return err
	}
	return nil
}
