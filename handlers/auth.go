package handlers

import (
	"net/http"
	"strings"

	"armenu-api/apperr"
	"armenu-api/middleware"
	"armenu-api/models"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) issue(c *gin.Context, status int, message string, m *models.Manager) {
	token, err := h.auth.GenerateToken(m)
	if err != nil {
		respondError(c, apperr.Backend("failed to generate token", err))
		return
	}
	c.JSON(status, gin.H{
		"message": message,
		"token":   token,
		"manager": m,
	})
}

// Register creates a new manager account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := apperr.Validate(req); err != nil {
		respondError(c, err)
		return
	}
	// passwords are used verbatim, so one made only of spaces is refused
	if strings.TrimSpace(req.Password) == "" {
		respondError(c, apperr.Validation("password is required"))
		return
	}

	m := &models.Manager{
		Email:       req.Email,
		Name:        strings.TrimSpace(req.Name),
		Username:    strings.TrimSpace(req.Username),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}
	if err := h.identity.RegisterManager(c.Request.Context(), m, req.Password); err != nil {
		respondError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, "Account created successfully", m)
}

// Login authenticates a manager and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := apperr.Validate(req); err != nil {
		respondError(c, err)
		return
	}

	m, err := h.identity.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issue(c, http.StatusOK, "Login successful", m)
}

// GetProfile returns the authenticated manager's profile
func (h *Handler) GetProfile(c *gin.Context) {
	m, err := h.identity.GetManager(c.Request.Context(), middleware.GetManagerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manager": m})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var upd models.ManagerUpdate
	if !bindJSON(c, &upd) {
		return
	}
	m, err := h.identity.UpdateManager(c.Request.Context(), middleware.GetManagerID(c), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "manager": m})
}
