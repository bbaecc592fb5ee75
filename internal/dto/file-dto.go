package dto

import "github.com/aarondl/null/v8"

type DownloadFileDTO struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	OriginalName string   `json:"original_name"`
	SizeBytes    int64    `json:"size_bytes"`
	MimeType     string   `json:"mime_type"`
	AllowedRoles []string `json:"allowedRoles"`
	Tags         []TagDTO `json:"tags,omitempty"`
	UploadedBy   uint64   `json:"uploaded_by"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type CreateDownloadFileDTO struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
	AllowedRoles []string `json:"allowedRoles" validate:"required,role_list"`
}

type UpdateDownloadFileDTO struct {
	Name         null.String `json:"name" validate:"omitempty,max=255"`
	Description  null.String `json:"description" validate:"omitempty,max=2000"`
	AllowedRoles []string    `json:"allowedRoles" validate:"omitempty,role_list"`
	TagIDs       []uint64    `json:"tag_ids" validate:"omitempty"`
}
