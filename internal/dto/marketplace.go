package dto

type RefundRequestDTO struct {
	Reason string `json:"reason" example:"buyer dispute upheld"`
}

type AuditRecordResponseDTO struct {
	ID           int64  `json:"id" example:"120"`
	ActorAdminID int64  `json:"actor_admin_id" example:"7"`
	Action       string `json:"action" example:"transaction.refund"`
	TargetEntity string `json:"target_entity" example:"transaction"`
	TargetID     int64  `json:"target_id" example:"88"`
	Payload      string `json:"payload,omitempty"`
	CreatedAt    string `json:"created_at" example:"2025-12-09T16:09:57+03:00"`
}
