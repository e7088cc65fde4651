package requests

type AddUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UpdateUserRequest carries a partial update; at least one field must be
// present, which the handler enforces since binding cannot.
type UpdateUserRequest struct {
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"isAdmin"`
}

type ValidateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
