package auditrepo

import (
	"context"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/pg"
	"go.uber.org/zap"
)

// Repository is insert-only by construction: there is no update or delete
// statement against audit_records anywhere in the codebase.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error) {
	query := `
        INSERT INTO audit_records (actor_admin_id, action, target_entity, target_id, payload)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, record.ActorAdminID, record.Action, record.TargetEntity, record.TargetID, record.Payload).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		zap.L().Error("can't save audit record", zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (r *Repository) FindByTarget(ctx context.Context, targetEntity string, targetID int64) ([]domain.AuditRecord, error) {
	query := `
        SELECT id, actor_admin_id, action, target_entity, target_id, payload, created_at
        FROM audit_records
        WHERE target_entity = $1 AND target_id = $2
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, targetEntity, targetID)
	if err != nil {
		zap.L().Error("failed to fetch audit records", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		err := rows.Scan(&record.ID, &record.ActorAdminID, &record.Action, &record.TargetEntity, &record.TargetID, &record.Payload, &record.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan audit record row", zap.Error(err))
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
