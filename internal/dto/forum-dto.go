package dto

type ForumThreadDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	CreatedBy  uint64 `json:"created_by"`
	AuthorName string `json:"author_name"`
	PostCount  uint64 `json:"post_count"`
	CreatedAt  string `json:"created_at"`
}

type CreateForumThreadDTO struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required,max=8000"`
}

type ForumPostDTO struct {
	ID         uint64 `json:"id"`
	ThreadID   uint64 `json:"thread_id"`
	Body       string `json:"body"`
	CreatedBy  uint64 `json:"created_by"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
}

type CreateForumPostDTO struct {
	Body string `json:"body" validate:"required,max=8000"`
}
