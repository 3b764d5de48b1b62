package audit

import (
	"context"

	"github.com/mkalvans/userhub/internal/server/models"
)

// Repository exposes read access to the audit trail. Rows are written by
// database triggers, never through this interface.
type Repository interface {
	Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}
