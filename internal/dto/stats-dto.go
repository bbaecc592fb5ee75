package dto

type StatsDTO struct {
	TotalUsers     uint64 `json:"total_users"`
	ActiveUsers    uint64 `json:"active_users"`
	TotalFiles     uint64 `json:"total_files"`
	TotalDownloads uint64 `json:"total_downloads"`
	TotalThreads   uint64 `json:"total_threads"`
}
