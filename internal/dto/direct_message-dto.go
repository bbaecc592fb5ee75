package dto

type DirectMessageDTO struct {
	ID          uint64 `json:"id"`
	SenderID    uint64 `json:"sender_id"`
	RecipientID uint64 `json:"recipient_id"`
	Body        string `json:"body"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"created_at"`
}

type SendDirectMessageDTO struct {
	RecipientID uint64 `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required,max=4000"`
}
