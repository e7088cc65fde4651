package userhandler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"llm-gateway/internal/domain/user"
	"llm-gateway/internal/interfaces/httpserver/requests"
	"llm-gateway/internal/interfaces/httpserver/responses"
	"llm-gateway/internal/utils/platformerrors"
)

// UserHandler serves the credential store CRUD and validation endpoints.
type UserHandler struct {
	service *user.Service
	log     zerolog.Logger
}

func NewUserHandler(service *user.Service, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// AddUser handles POST /api/users.
func (h *UserHandler) AddUser(reqCtx *gin.Context) {
	var req requests.AddUserRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"Request body must be valid JSON with username and password fields",
			"3a6d9f02-5c81-4e47-b0a3-7f2e4d8c1b60")
		return
	}

	created, err := h.service.Add(reqCtx.Request.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to create user")
		return
	}

	reqCtx.JSON(201, gin.H{"user": responses.NewUserResponse(created)})
}

// DeleteUser handles DELETE /api/users/:username.
func (h *UserHandler) DeleteUser(reqCtx *gin.Context) {
	username := reqCtx.Param("username")

	if err := h.service.Delete(reqCtx.Request.Context(), username); err != nil {
		responses.HandleError(reqCtx, err, "failed to delete user")
		return
	}

	reqCtx.JSON(200, responses.MessageResponse{
		Message: fmt.Sprintf("user %q deleted", username),
	})
}

// UpdateUser handles PUT /api/users/:username. At least one of password or
// isAdmin must be present.
func (h *UserHandler) UpdateUser(reqCtx *gin.Context) {
	username := reqCtx.Param("username")

	var req requests.UpdateUserRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"Request body must be valid JSON",
			"4b7e0a13-6d92-4f58-c1b4-8a3f5e9d2c71")
		return
	}
	if req.Password == nil && req.IsAdmin == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"at least one of password or isAdmin must be provided",
			"5c8f1b24-7ea3-4069-d2c5-9b4a6f0e3d82")
		return
	}

	updated, err := h.service.Update(reqCtx.Request.Context(), username, req.Password, req.IsAdmin)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to update user")
		return
	}
	if updated == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("user %q not found", username),
			"6d9a2c35-8fb4-417a-e3d6-ac5b7a1f4e93")
		return
	}

	reqCtx.JSON(200, gin.H{"user": responses.NewUserResponse(updated)})
}

// ValidateUser handles POST /api/users/validate.
func (h *UserHandler) ValidateUser(reqCtx *gin.Context) {
	var req requests.ValidateUserRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"Request body must be valid JSON with username and password fields",
			"7eab3d46-9ac5-428b-f4e7-bd6c8a2a5fa4")
		return
	}

	validated, err := h.service.Validate(reqCtx.Request.Context(), req.Username, req.Password)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to validate user")
		return
	}
	if validated == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized,
			"invalid username or password",
			"8fbc4e57-ab06-439c-a5f8-ce7d9b3a60b5")
		return
	}

	reqCtx.JSON(200, gin.H{"user": responses.NewUserResponse(validated)})
}
