package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforce-app/taskforce-api/internal/dto"
	apierrors "github.com/taskforce-app/taskforce-api/internal/errors"
	"github.com/taskforce-app/taskforce-api/internal/middleware"
	"github.com/taskforce-app/taskforce-api/internal/services"
	"github.com/taskforce-app/taskforce-api/internal/utils"
)

// TeamHandler coordinates team membership HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// GetTeam returns a team by ID.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetTeam(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// GetMembers lists a team's members.
func (h *TeamHandler) GetMembers(c *gin.Context) {
	teamID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	members, err := h.teamService.ListMembers(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	memberDTOs := make([]dto.UserDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, dto.ToUserDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}

// AddMember attaches a user to the team by email, creating a pending invite
// record when the email is unknown.
func (h *TeamHandler) AddMember(c *gin.Context) {
	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	teamID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, err := h.teamService.AddMemberByEmail(req.Email, teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// RemoveMember detaches a user from the caller's team. The user record
// itself persists.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	targetID, err := utils.ParseUint64Param(c, "user_id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.teamService.RemoveMember(actorID, targetID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTeamAdmin):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrMemberOutsideTeam):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
