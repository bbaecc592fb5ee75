package dto

type AuditLogDTO struct {
	ID         uint64  `json:"id"`
	ActorID    uint64  `json:"actor_id"`
	ActorName  string  `json:"actor_name"`
	Action     string  `json:"action"`
	EntityType string  `json:"entity_type"`
	EntityID   *uint64 `json:"entity_id"`
	CreatedAt  string  `json:"created_at"`
}
