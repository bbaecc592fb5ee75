package dto

import "github.com/aarondl/null/v8"

type AnnouncementDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedBy uint64 `json:"created_by"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateAnnouncementDTO struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required,max=8000"`
}

type UpdateAnnouncementDTO struct {
	Title null.String `json:"title" validate:"omitempty,max=255"`
	Body  null.String `json:"body" validate:"omitempty,max=8000"`
}
