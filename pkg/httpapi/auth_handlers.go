package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Locale   string `json:"locale"`
}

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	hash, err := h.deps.Auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.CodeUnknown, "failed to hash password", err))
		return
	}
	user, err := h.deps.Store.Users.Create(req.Email, hash, req.Locale)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.deps.Auth.GenerateToken(user.ID)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.CodeUnknown, "failed to issue token", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": user.ID, "access_token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	user, err := h.deps.Store.Users.GetByEmail(req.Email)
	if err != nil || !h.deps.Auth.CheckPassword(user.PasswordVerifier, req.Password) {
		respondError(c, apperr.New(apperr.CodeInvalidCredentials, "email or password is incorrect"))
		return
	}
	token, err := h.deps.Auth.GenerateToken(user.ID)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.CodeUnknown, "failed to issue token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "access_token": token})
}

func (h *handlers) me(c *gin.Context) {
	user, err := h.deps.Store.Users.GetByID(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
