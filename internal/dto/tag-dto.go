package dto

import "github.com/aarondl/null/v8"

type TagDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type CreateTagDTO struct {
	Name string `json:"name" validate:"required,max=64"`
}

type UpdateTagDTO struct {
	Name null.String `json:"name" validate:"omitempty,max=64"`
}
