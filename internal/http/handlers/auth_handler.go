package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumvida/lumvida-backend/internal/dto"
	"github.com/lumvida/lumvida-backend/internal/http/handlers/common"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/service"
)

// AuthHandler serves the admin login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			common.RespondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.LoginResponse{
		Token: token,
		Email: user.Email,
		Role:  user.Role,
	})
}
