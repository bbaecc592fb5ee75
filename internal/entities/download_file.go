package entities

import (
	"database/sql"
	"time"
)

// DownloadFile is a stored blob plus its metadata. AllowedRoles controls
// which roles may see and download the file; BlobPath is the sanitized
// on-disk location and is never exposed to clients directly.
type DownloadFile struct {
	ID           uint64
	Name         string
	Description  sql.NullString
	OriginalName string
	BlobPath     string
	SizeBytes    int64
	MimeType     string
	AllowedRoles []string
	UploadedBy   uint64
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
}
