package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSubjectRequired  = errors.New("identity subject is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrTeamNameRequired = errors.New("team name cannot be empty")
)

// IdentityService bridges external authenticated identities to internal user
// records.
type IdentityService struct {
	userRepo repository.UserRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
	}
}

// CreateOrGetUserInput carries the identity provider's view of the caller.
type CreateOrGetUserInput struct {
	Subject string
	Email   string
	Name    string
}

// CreateOrGetUser resolves an external identity to a user record, creating
// one on first sight. Idempotent by subject. A pending placeholder created by
// an email invite is adopted when the real identity signs in with the same
// email; beyond that there is no reconciliation.
func (s *IdentityService) CreateOrGetUser(input CreateOrGetUserInput) (*models.User, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.userRepo.FindBySubject(subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if invited, err := s.userRepo.FindByEmail(input.Email); err == nil {
		if invited.IsPending() {
			invited.Subject = subject
			if input.Name != "" {
				invited.Name = input.Name
			}
			if err := s.userRepo.Update(invited); err != nil {
				return nil, fmt.Errorf("failed to claim invited user: %w", err)
			}
			return invited, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	user = &models.User{
		Subject: subject,
		Email:   input.Email,
		Name:    input.Name,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUserRole sets the user's role. Choosing admin together with a team
// name creates the team and sets the role and team reference atomically;
// otherwise only the role changes and any existing team reference stays.
func (s *IdentityService) UpdateUserRole(subject string, role models.Role, teamName *string) (*models.User, error) {
	user, err := s.userRepo.FindBySubject(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if role == models.RoleAdmin && teamName != nil {
		if strings.TrimSpace(*teamName) == "" {
			return nil, ErrTeamNameRequired
		}

		team := &models.Team{Name: *teamName}
		if err := s.userRepo.CreateTeamForAdmin(user, team); err != nil {
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
		return user, nil
	}

	user.Role = &role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return user, nil
}

// GetCurrentUser returns the user behind a session reference, or nil when
// there is no session or the record is gone. An absent identity is "not yet
// signed in", never an error.
func (s *IdentityService) GetCurrentUser(userID *uint64) (*models.User, error) {
	if userID == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(*userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by internal ID.
func (s *IdentityService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
