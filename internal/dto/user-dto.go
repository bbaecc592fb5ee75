package dto

import "github.com/aarondl/null/v8"

// UserDTO is the wire shape of an account. It deliberately has no
// password field: hashes are stripped before anything leaves the
// service layer.
type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UpdateUserDTO struct {
	Role     null.String `json:"role" validate:"omitempty,role"`
	Active   null.Bool   `json:"active" validate:"omitempty"`
	Password null.String `json:"password" validate:"omitempty,min=8,max=72"`
}
