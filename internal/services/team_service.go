package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/constants"
	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrNotTeamAdmin      = errors.New("only a team admin can remove members")
	ErrMemberNotFound    = errors.New("user not found")
	ErrMemberOutsideTeam = errors.New("user is not in your team")
)

// TeamService provides business logic for team membership operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// GetTeam returns a team by ID.
func (s *TeamService) GetTeam(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// ListMembers lists the users belonging to a team.
func (s *TeamService) ListMembers(teamID uint64) ([]models.User, error) {
	members, err := s.userRepo.ListByTeamID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// AddMemberByEmail attaches the user with the given email to the team. An
// existing user joins the team and is defaulted to the employee role only
// when no role was chosen yet; an unknown email gets a pending placeholder
// record that the real identity can claim later at sign-in. Returns the user
// ID either way.
func (s *TeamService) AddMemberByEmail(email string, teamID uint64) (uint64, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		user.TeamID = &teamID
		if user.Role == nil {
			role := models.RoleEmployee
			user.Role = &role
		}
		if err := s.userRepo.Update(user); err != nil {
			return 0, fmt.Errorf("failed to add member: %w", err)
		}
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to look up user by email: %w", err)
	}

	role := models.RoleEmployee
	pending := &models.User{
		Subject: constants.PendingSubjectPrefix + email,
		Email:   email,
		Role:    &role,
		TeamID:  &teamID,
	}

	if err := s.userRepo.Create(pending); err != nil {
		return 0, fmt.Errorf("failed to create invited user: %w", err)
	}

	return pending.ID, nil
}

// RemoveMember clears the target user's team reference. The actor must be an
// admin of a team and the target must belong to that same team; the user
// record itself persists.
func (s *TeamService) RemoveMember(actorID, targetID uint64) error {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve caller: %w", err)
	}

	if !actor.IsAdmin() || actor.TeamID == nil {
		return ErrNotTeamAdmin
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if target.TeamID == nil || *target.TeamID != *actor.TeamID {
		return ErrMemberOutsideTeam
	}

	target.TeamID = nil
	if err := s.userRepo.Update(target); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
