package dto

type NotificationDTO struct {
	ID              uint64  `json:"id"`
	UserID          uint64  `json:"user_id"`
	Title           string  `json:"title"`
	Body            string  `json:"body"`
	Read            bool    `json:"read"`
	Kind            string  `json:"kind"`
	RelatedEntityID *uint64 `json:"relatedEntityId"`
	CreatedAt       string  `json:"created_at"`
}
