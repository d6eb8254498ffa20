package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/taskforce-app/taskforce-api/internal/constants"
	"github.com/taskforce-app/taskforce-api/internal/dto"
	apierrors "github.com/taskforce-app/taskforce-api/internal/errors"
	"github.com/taskforce-app/taskforce-api/internal/middleware"
	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/services"
)

// AuthHandler coordinates identity-related HTTP handlers.
type AuthHandler struct {
	identityService *services.IdentityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identityService *services.IdentityService) *AuthHandler {
	return &AuthHandler{
		identityService: identityService,
	}
}

// Identify resolves an externally authenticated identity to a user record
// and initializes the session. Calling it again with the same subject is a
// no-op beyond refreshing the session.
func (h *AuthHandler) Identify(c *gin.Context) {
	type IdentifyRequest struct {
		Subject string `json:"subject" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Name    string `json:"name"`
	}

	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.identityService.CreateOrGetUser(services.CreateOrGetUserInput{
		Subject: req.Subject,
		Email:   req.Email,
		Name:    req.Name,
	})
	if err != nil {
		respondIdentityError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// Me returns the authenticated user, or a null user when there is no session
// or the record behind it is gone. Deliberately not behind RequireAuth: the
// frontend probes this before deciding whether to show the sign-in flow.
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessions.Default(c)

	var userID *uint64
	if raw := session.Get(constants.ContextKeyUserID); raw != nil {
		if id, ok := raw.(uint64); ok {
			userID = &id
		}
	}

	user, err := h.identityService.GetCurrentUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, gin.H{"user": userDTO})
}

// SetRole records the caller's chosen role. Choosing admin together with a
// team name also creates the team and makes the caller its admin.
func (h *AuthHandler) SetRole(c *gin.Context) {
	type SetRoleRequest struct {
		Role     models.Role `json:"role" binding:"required,oneof=admin employee"`
		TeamName *string     `json:"team_name"`
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	caller, err := h.identityService.GetUser(userID)
	if err != nil {
		respondIdentityError(c, err)
		return
	}

	user, err := h.identityService.UpdateUserRole(caller.Subject, req.Role, req.TeamName)
	if err != nil {
		respondIdentityError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

func respondIdentityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSubjectRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrTeamNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
