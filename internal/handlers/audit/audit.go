package audit

import (
	"context"
	"net/http"
	"strconv"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/dto"
	"github.com/creatorly/finops/pkg/utils"
)

type Service interface {
	List(ctx context.Context, targetEntity string, targetID int64) ([]domain.AuditRecord, error)
}

type AuditHandler struct {
	auditService Service
}

func New(auditService Service) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// List godoc
//
//	@Summary		List audit records for a target
//	@Description	Retrieve the append-only administrative action trail for one entity, newest first.
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Param			entity		query		string							true	"Target entity"	Enums(wallet, payout, transaction, order)
//	@Param			target_id	query		int								true	"Target ID"
//	@Success		200			{array}		dto.AuditRecordResponseDTO	"Audit records"
//	@Success		204			{object}	utils.Response				"No records"
//	@Router			/api/admin/audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	if entity == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "entity is required")
		return
	}
	targetID, err := strconv.ParseInt(r.URL.Query().Get("target_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid target id")
		return
	}

	records, err := h.auditService.List(r.Context(), entity, targetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch audit records")
		return
	}

	if len(records) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Audit records not found")
		return
	}

	response := make([]dto.AuditRecordResponseDTO, len(records))
	for i, record := range records {
		response[i] = dto.AuditRecordResponseDTO{
			ID:           record.ID,
			ActorAdminID: record.ActorAdminID,
			Action:       record.Action,
			TargetEntity: record.TargetEntity,
			TargetID:     record.TargetID,
			Payload:      string(record.Payload),
			CreatedAt:    record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
