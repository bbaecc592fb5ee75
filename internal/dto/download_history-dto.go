package dto

type DownloadHistoryDTO struct {
	ID           uint64 `json:"id"`
	FileID       uint64 `json:"file_id"`
	FileName     string `json:"file_name"`
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	DownloadedAt string `json:"downloaded_at"`
}
