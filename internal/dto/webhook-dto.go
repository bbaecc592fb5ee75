package dto

import "github.com/aarondl/null/v8"

type WebhookDTO struct {
	ID         uint64   `json:"id"`
	URL        string   `json:"url"`
	EventTypes []string `json:"event_types"`
	Active     bool     `json:"active"`
	CreatedBy  uint64   `json:"created_by"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type CreateWebhookDTO struct {
	URL        string   `json:"url" validate:"required,url,max=2000"`
	EventTypes []string `json:"event_types" validate:"omitempty,dive,max=64"`
}

type UpdateWebhookDTO struct {
	URL        null.String `json:"url" validate:"omitempty,url,max=2000"`
	EventTypes []string    `json:"event_types" validate:"omitempty,dive,max=64"`
	Active     null.Bool   `json:"active" validate:"omitempty"`
}
