package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/availlant/fieldscan/internal/repository"
	"github.com/availlant/fieldscan/pkg/models"
)

// PostgresScanRepository implements ScanRepository for PostgreSQL
type PostgresScanRepository struct {
	db *sql.DB
}

// NewPostgresScanRepository creates a new PostgreSQL scan repository
func NewPostgresScanRepository(db *sql.DB) repository.ScanRepository {
	return &PostgresScanRepository{db: db}
}

// Create inserts a new scan record
func (r *PostgresScanRepository) Create(ctx context.Context, scan *models.Scan) error {
	query := `
		INSERT INTO scans (id, session_id, status, progress, method, center_freq_hz, resolution, s3_key_prefix, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		scan.ID,
		scan.SessionID,
		scan.Status,
		scan.Progress,
		scan.Method,
		scan.CenterFreqHz,
		scan.Resolution,
		scan.S3KeyPrefix,
		scan.CreatedAt,
		scan.UpdatedAt)

	return err
}

// GetByID retrieves a scan by ID
func (r *PostgresScanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scan, error) {
	query := `
		SELECT id, session_id, status, progress, method, center_freq_hz, resolution, s3_key_prefix, error_message, created_at, updated_at, completed_at
		FROM scans
		WHERE id = $1`

	var scan models.Scan
	var s3KeyPrefix, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&scan.ID,
		&scan.SessionID,
		&scan.Status,
		&scan.Progress,
		&scan.Method,
		&scan.CenterFreqHz,
		&scan.Resolution,
		&s3KeyPrefix,
		&errorMsg,
		&scan.CreatedAt,
		&scan.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if s3KeyPrefix.Valid {
		scan.S3KeyPrefix = &s3KeyPrefix.String
	}
	if errorMsg.Valid {
		scan.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		scan.CompletedAt = &completedAt.Time
	}

	return &scan, nil
}

// GetBySessionID retrieves scans by session ID
func (r *PostgresScanRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Scan, error) {
	query := `
		SELECT id, session_id, status, progress, method, center_freq_hz, resolution, s3_key_prefix, error_message, created_at, updated_at, completed_at
		FROM scans
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*models.Scan
	for rows.Next() {
		var scan models.Scan
		var s3KeyPrefix, errorMsg sql.NullString
		var completedAt sql.NullTime

		err := rows.Scan(
			&scan.ID,
			&scan.SessionID,
			&scan.Status,
			&scan.Progress,
			&scan.Method,
			&scan.CenterFreqHz,
			&scan.Resolution,
			&s3KeyPrefix,
			&errorMsg,
			&scan.CreatedAt,
			&scan.UpdatedAt,
			&completedAt)

		if err != nil {
			return nil, err
		}

		if s3KeyPrefix.Valid {
			scan.S3KeyPrefix = &s3KeyPrefix.String
		}
		if errorMsg.Valid {
			scan.ErrorMsg = &errorMsg.String
		}
		if completedAt.Valid {
			scan.CompletedAt = &completedAt.Time
		}

		scans = append(scans, &scan)
	}

	return scans, rows.Err()
}

// UpdateStatus updates the status and progress of a scan
func (r *PostgresScanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE scans
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError updates the error message for a scan
func (r *PostgresScanRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE scans
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResults stores the estimated direction field for a scan
func (r *PostgresScanRepository) StoreResults(ctx context.Context, results *models.ScanResults) error {
	points, err := json.Marshal(results.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal estimate points: %w", err)
	}

	query := `
		INSERT INTO scan_results (id, scan_id, points, point_count, valid_count, degenerate_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.ScanID,
		string(points),
		results.PointCount,
		results.ValidCount,
		results.DegenerateCount,
		results.CreatedAt)

	return err
}

// GetResults retrieves the estimated direction field for a scan
func (r *PostgresScanRepository) GetResults(ctx context.Context, scanID uuid.UUID) (*models.ScanResults, error) {
	query := `
		SELECT id, scan_id, points, point_count, valid_count, degenerate_count, created_at
		FROM scan_results
		WHERE scan_id = $1`

	var results models.ScanResults
	var pointsStr string

	err := r.db.QueryRowContext(ctx, query, scanID).Scan(
		&results.ID,
		&results.ScanID,
		&pointsStr,
		&results.PointCount,
		&results.ValidCount,
		&results.DegenerateCount,
		&results.CreatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(pointsStr), &results.Points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal estimate points: %w", err)
	}

	return &results, nil
}
