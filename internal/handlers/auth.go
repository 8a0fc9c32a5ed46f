package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type authCredentials struct {
	Username string `json:"username" binding:"required" example:"operator"`
	Password string `json:"password" binding:"required" example:"secret"`
}

type createUserRequest struct {
	authCredentials
	IsAdmin bool `json:"is_admin"`
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      authCredentials  true  "Credentials"
// @Success      200      {object}  map[string]string  "token"
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Authorization.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Create user
// @Description  Registers an operator account. Only administrators may call this.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body      createUserRequest  true  "New account"
// @Success      201      {object}  map[string]interface{}  "username, is_admin"
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Failure      409      {object}  map[string]string  "user exists"
// @Router       /api/v1/admin/users [post]
// @Security     BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	var input createUserRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	err := h.services.Authorization.Register(c.Request.Context(), input.Username, input.Password, input.IsAdmin)
	if err != nil {
		h.respondError(c, "auth_create_user_failed", err, "username", input.Username)
		return
	}

	by, _ := identityFrom(c)
	if h.log != nil {
		h.log.Infow("auth_user_created", "username", input.Username, "is_admin", input.IsAdmin, "by", by.Username)
	}
	c.JSON(http.StatusCreated, gin.H{"username": input.Username, "is_admin": input.IsAdmin})
}
