package services

import (
	"context"
	"database/sql"

	"github.com/mkalvans/userhub/internal/server/config"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/repositories/repomanager"
)

// AuditService reads the bounded recent-history view of the audit trail.
// Nothing writes through it; audit rows are produced by the store itself
// inside each mutating transaction.
type AuditService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	maxLimit int
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuditService {
	limit := cfg.AuditLogLimit
	if limit <= 0 {
		limit = 50
	}
	return &AuditService{db: db, repos: m, maxLimit: limit}
}

// Recent returns the newest entries, most recent first. A non-positive or
// oversized limit is clamped to the configured maximum; full-history access
// is not available here.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}

	entries, err := s.repos.Audit(s.db).Recent(ctx, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	if entries == nil {
		entries = []*models.AuditLogEntry{}
	}
	return entries, nil
}
