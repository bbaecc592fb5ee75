package dto

type RegisterDTO struct {
	Username   string `json:"username" validate:"required,username"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	InviteCode string `json:"invite_code" validate:"required"`
}

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
