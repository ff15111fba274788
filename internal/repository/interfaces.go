package repository

import (
	"context"

	"github.com/availlant/fieldscan/pkg/models"
	"github.com/google/uuid"
)

// ScanRepository defines the interface for scan data operations
type ScanRepository interface {
	Create(ctx context.Context, scan *models.Scan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Scan, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Scan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, results *models.ScanResults) error
	GetResults(ctx context.Context, scanID uuid.UUID) (*models.ScanResults, error)
}
