package dto

type InviteCodeDTO struct {
	ID        uint64 `json:"id"`
	Code      string `json:"code"`
	Role      string `json:"role"`
	Used      bool   `json:"used"`
	UsedBy    *uint64 `json:"used_by"`
	UsedAt    string `json:"used_at"`
	CreatedBy uint64 `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

type CreateInviteCodeDTO struct {
	Role string `json:"role" validate:"required,role"`
}
