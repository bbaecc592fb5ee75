package dto

import "github.com/aarondl/null/v8"

type CollectionDTO struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FileIDs     []uint64 `json:"file_ids"`
	CreatedBy   uint64   `json:"created_by"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type CreateCollectionDTO struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	FileIDs     []uint64 `json:"file_ids" validate:"omitempty"`
}

type UpdateCollectionDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=255"`
	Description null.String `json:"description" validate:"omitempty,max=2000"`
}

type CollectionFileDTO struct {
	FileID uint64 `json:"file_id" validate:"required"`
}
