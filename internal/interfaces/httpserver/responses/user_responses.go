package responses

import "llm-gateway/internal/domain/user"

// UserResponse mirrors the stored user record, password included; the store
// holds caller-supplied opaque values and echoes them back.
type UserResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		Username: u.Username,
		Password: u.Password,
		IsAdmin:  u.IsAdmin,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}
