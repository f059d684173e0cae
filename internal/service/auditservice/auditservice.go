package auditservice

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/creatorly/finops/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
	FindByTarget(ctx context.Context, targetEntity string, targetID int64) ([]domain.AuditRecord, error)
}

type Service struct {
	auditRepo Repo
}

func New(auditRepo Repo) *Service {
	return &Service{
		auditRepo: auditRepo,
	}
}

// Record appends one audit entry. Failures are fatal to the enclosing
// operation; the trail is never allowed to silently fall behind the money.
func (s *Service) Record(ctx context.Context, adminID int64, action, targetEntity string, targetID int64, snapshot map[string]any) (*domain.AuditRecord, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	record, err := s.auditRepo.Create(ctx, &domain.AuditRecord{
		ActorAdminID: adminID,
		Action:       action,
		TargetEntity: targetEntity,
		TargetID:     targetID,
		Payload:      payload,
	})
	if err != nil {
		zap.L().Error("failed to record audit entry", zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, targetEntity string, targetID int64) ([]domain.AuditRecord, error) {
	records, err := s.auditRepo.FindByTarget(ctx, targetEntity, targetID)
	if err != nil {
		zap.L().Error("failed to fetch audit records", zap.Error(err))
		return nil, err
	}
	return records, nil
}
