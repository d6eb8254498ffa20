package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/constants"
	"github.com/taskforce-app/taskforce-api/internal/database"
	"github.com/taskforce-app/taskforce-api/internal/dto"
	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
	"github.com/taskforce-app/taskforce-api/internal/services"
)

type teamTestEnv struct {
	db      *gorm.DB
	handler *TeamHandler
}

func setupTeamTestEnv(t *testing.T) teamTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	handler := NewTeamHandler(services.NewTeamService(teamRepo, userRepo))

	gin.SetMode(gin.TestMode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return teamTestEnv{db: db, handler: handler}
}

func (env teamTestEnv) createUser(t *testing.T, email string, role models.Role, teamID *uint64) *models.User {
	t.Helper()
	user := &models.User{
		Subject: "subj_" + email,
		Email:   email,
		Role:    &role,
		TeamID:  teamID,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env teamTestEnv) createTeam(t *testing.T, name string, adminID uint64) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, AdminID: adminID}
	require.NoError(t, env.db.Create(team).Error)
	return team
}

func teamContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func TestTeamHandler_GetTeam(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)

	c, w := teamContext("GET", fmt.Sprintf("/api/teams/%d", team.ID), nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(team.ID)}}
	env.handler.GetTeam(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TeamDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, team.ID, response.ID)
	require.Equal(t, "Platform Team", response.Name)
	require.Equal(t, admin.ID, response.AdminID)
}

func TestTeamHandler_GetTeam_NotFound(t *testing.T) {
	env := setupTeamTestEnv(t)
	user := env.createUser(t, "user@example.com", models.RoleEmployee, nil)

	c, w := teamContext("GET", "/api/teams/999", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	env.handler.GetTeam(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_GetMembers(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)
	admin.TeamID = &team.ID
	require.NoError(t, env.db.Save(admin).Error)
	env.createUser(t, "worker@example.com", models.RoleEmployee, &team.ID)
	env.createUser(t, "outsider@example.com", models.RoleEmployee, nil)

	c, w := teamContext("GET", fmt.Sprintf("/api/teams/%d/members", team.ID), nil, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(team.ID)}}
	env.handler.GetMembers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Members []dto.UserDTO `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Members, 2)
}

func TestTeamHandler_AddMember_ExistingUserJoinsTeam(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)
	worker := env.createUser(t, "worker@example.com", models.RoleEmployee, nil)

	body, _ := json.Marshal(map[string]string{"email": "worker@example.com"})
	c, w := teamContext("POST", fmt.Sprintf("/api/teams/%d/members", team.ID), body, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(team.ID)}}
	env.handler.AddMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]uint64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, worker.ID, response["user_id"])

	var updated models.User
	require.NoError(t, env.db.First(&updated, worker.ID).Error)
	require.NotNil(t, updated.TeamID)
	require.Equal(t, team.ID, *updated.TeamID)
}

func TestTeamHandler_AddMember_UnknownEmailCreatesPendingInvite(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)

	body, _ := json.Marshal(map[string]string{"email": "ghost@example.com"})
	c, w := teamContext("POST", fmt.Sprintf("/api/teams/%d/members", team.ID), body, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(team.ID)}}
	env.handler.AddMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]uint64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	var invited models.User
	require.NoError(t, env.db.First(&invited, response["user_id"]).Error)
	require.True(t, invited.IsPending())
	require.Equal(t, "ghost@example.com", invited.Email)
	require.NotNil(t, invited.TeamID)
	require.Equal(t, team.ID, *invited.TeamID)
	require.NotNil(t, invited.Role)
	require.Equal(t, models.RoleEmployee, *invited.Role)
}

func TestTeamHandler_AddMember_EmailMatchIsCaseSensitive(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)
	existing := env.createUser(t, "Worker@example.com", models.RoleEmployee, nil)

	body, _ := json.Marshal(map[string]string{"email": "worker@example.com"})
	c, w := teamContext("POST", fmt.Sprintf("/api/teams/%d/members", team.ID), body, admin.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(team.ID)}}
	env.handler.AddMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	// A differently-cased email is a different address: the existing user is
	// left alone and a fresh pending invite is created.
	var response map[string]uint64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEqual(t, existing.ID, response["user_id"])

	var invited models.User
	require.NoError(t, env.db.First(&invited, response["user_id"]).Error)
	require.True(t, invited.IsPending())
	require.Equal(t, "worker@example.com", invited.Email)

	var untouched models.User
	require.NoError(t, env.db.First(&untouched, existing.ID).Error)
	require.Nil(t, untouched.TeamID)
}

func TestTeamHandler_RemoveMember_RequiresTeamAdmin(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)
	worker := env.createUser(t, "worker@example.com", models.RoleEmployee, &team.ID)
	other := env.createUser(t, "other@example.com", models.RoleEmployee, &team.ID)

	c, w := teamContext("DELETE", fmt.Sprintf("/api/team-members/%d", worker.ID), nil, other.ID)
	c.Params = gin.Params{{Key: "user_id", Value: fmt.Sprint(worker.ID)}}
	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	var untouched models.User
	require.NoError(t, env.db.First(&untouched, worker.ID).Error)
	require.NotNil(t, untouched.TeamID)
}

func TestTeamHandler_RemoveMember_OutsideTeamConflicts(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)
	admin.TeamID = &team.ID
	require.NoError(t, env.db.Save(admin).Error)
	outsider := env.createUser(t, "outsider@example.com", models.RoleEmployee, nil)

	c, w := teamContext("DELETE", fmt.Sprintf("/api/team-members/%d", outsider.ID), nil, admin.ID)
	c.Params = gin.Params{{Key: "user_id", Value: fmt.Sprint(outsider.ID)}}
	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeamHandler_RemoveMember_DetachesButKeepsUser(t *testing.T) {
	env := setupTeamTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin, nil)
	team := env.createTeam(t, "Platform Team", admin.ID)
	admin.TeamID = &team.ID
	require.NoError(t, env.db.Save(admin).Error)
	worker := env.createUser(t, "worker@example.com", models.RoleEmployee, &team.ID)

	c, w := teamContext("DELETE", fmt.Sprintf("/api/team-members/%d", worker.ID), nil, admin.ID)
	c.Params = gin.Params{{Key: "user_id", Value: fmt.Sprint(worker.ID)}}
	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, env.db.First(&updated, worker.ID).Error)
	require.Nil(t, updated.TeamID)
}
