package dto

import "github.com/aarondl/null/v8"

type FaqProductDTO struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Items       []FaqItemDTO `json:"items,omitempty"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

type CreateFaqProductDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateFaqProductDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=255"`
	Description null.String `json:"description" validate:"omitempty,max=2000"`
}

type FaqItemDTO struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"product_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateFaqItemDTO struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Question  string `json:"question" validate:"required,max=1000"`
	Answer    string `json:"answer" validate:"required,max=8000"`
	Position  int    `json:"position" validate:"omitempty,min=0"`
}

type UpdateFaqItemDTO struct {
	Question null.String `json:"question" validate:"omitempty,max=1000"`
	Answer   null.String `json:"answer" validate:"omitempty,max=8000"`
	Position null.Int    `json:"position" validate:"omitempty,min=0"`
}
