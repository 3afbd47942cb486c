package httpapi

import (
	"net/http"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

func mapUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
}

func (h *Handlers) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userUC.Create(c.Request.Context(), req.Email, req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapUserResponse(user))
}

func (h *Handlers) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	user, err := h.userUC.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapUserResponse(user))
}

type updateUserRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userUC.UpdateProfile(c.Request.Context(), userID, req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapUserResponse(user))
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	if err := h.userUC.Delete(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

type registerPushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handlers) RegisterPushToken(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var req registerPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userUC.RegisterPushToken(c.Request.Context(), userID, req.Token); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "push token registered"})
}
