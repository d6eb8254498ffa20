package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/constants"
	"github.com/taskforce-app/taskforce-api/internal/database"
	"github.com/taskforce-app/taskforce-api/internal/dto"
	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
	"github.com/taskforce-app/taskforce-api/internal/services"
)

// QueryHandlerTestSuite defines the test suite for QueryHandler
type QueryHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *QueryHandler
}

func (suite *QueryHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Project{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.TaskNote{},
		&models.TaskImage{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	queryService := services.NewTaskQueryService(taskRepo, projectRepo, userRepo, nil)
	identityService := services.NewIdentityService(userRepo)
	suite.handler = NewQueryHandler(queryService, identityService)

	gin.SetMode(gin.TestMode)
}

func (suite *QueryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *QueryHandlerTestSuite) createUser(email string, role models.Role, teamID *uint64) *models.User {
	user := &models.User{
		Subject: "subj_" + email,
		Email:   email,
		Role:    &role,
		TeamID:  teamID,
	}
	suite.db.Create(user)
	return user
}

func (suite *QueryHandlerTestSuite) createProject(name string, teamID uint64) *models.Project {
	project := &models.Project{
		Name:   name,
		TeamID: teamID,
	}
	suite.db.Create(project)
	return project
}

func (suite *QueryHandlerTestSuite) createTask(title string, projectID uint64, assignedTo *uint64) *models.Task {
	task := &models.Task{
		Title:        title,
		ProjectID:    projectID,
		Status:       models.TaskStatusPending,
		AssignedToID: assignedTo,
	}
	suite.db.Create(task)
	return task
}

func (suite *QueryHandlerTestSuite) assign(taskID, userID uint64, position int) {
	suite.db.Create(&models.TaskAssignment{TaskID: taskID, UserID: userID, Position: position})
}

func (suite *QueryHandlerTestSuite) authContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *QueryHandlerTestSuite) TestProjectTasks_EnrichesLegacyAssignee() {
	worker := suite.createUser("worker@example.com", models.RoleEmployee, nil)
	project := suite.createProject("Backend", 1)
	suite.createTask("Unassigned", project.ID, nil)
	suite.createTask("Assigned", project.ID, &worker.ID)

	c, w := suite.authContext("GET", fmt.Sprintf("/api/projects/%d/tasks", project.ID), nil, worker.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(project.ID)}}
	suite.handler.ProjectTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.ProjectTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 2)

	// Newest first.
	assert.Equal(suite.T(), "Assigned", response.Tasks[0].Title)
	suite.Require().NotNil(response.Tasks[0].AssignedUser)
	assert.Equal(suite.T(), worker.Email, response.Tasks[0].AssignedUser.Email)
	assert.Nil(suite.T(), response.Tasks[1].AssignedUser)
}

func (suite *QueryHandlerTestSuite) TestMyTasks_UnionOfBothRepresentations() {
	me := suite.createUser("me@example.com", models.RoleEmployee, nil)
	other := suite.createUser("other@example.com", models.RoleEmployee, nil)
	project := suite.createProject("Backend", 1)

	legacyOnly := suite.createTask("Legacy only", project.ID, &me.ID)
	listOnly := suite.createTask("List only", project.ID, nil)
	suite.assign(listOnly.ID, me.ID, 0)
	both := suite.createTask("Both", project.ID, &me.ID)
	suite.assign(both.ID, me.ID, 0)
	suite.createTask("Someone else", project.ID, &other.ID)

	c, w := suite.authContext("GET", "/api/tasks/mine", nil, me.ID)
	suite.handler.MyTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.MyTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))

	// A task matching through both representations appears exactly once.
	suite.Require().Len(response.Tasks, 3)
	titles := make(map[string]int)
	for _, task := range response.Tasks {
		titles[task.Title]++
	}
	assert.Equal(suite.T(), 1, titles["Legacy only"])
	assert.Equal(suite.T(), 1, titles["List only"])
	assert.Equal(suite.T(), 1, titles["Both"])
	assert.Equal(suite.T(), legacyOnly.ProjectID, response.Tasks[0].ProjectID)
}

func (suite *QueryHandlerTestSuite) TestMyTasks_EnrichesProjectAndSearchesItsName() {
	me := suite.createUser("me@example.com", models.RoleEmployee, nil)
	backend := suite.createProject("Backend", 1)
	frontend := suite.createProject("Frontend", 1)
	suite.createTask("Fix login", backend.ID, &me.ID)
	suite.createTask("Fix styles", frontend.ID, &me.ID)

	c, w := suite.authContext("GET", "/api/tasks/mine?search=FRONT", nil, me.ID)
	suite.handler.MyTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.MyTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "Fix styles", response.Tasks[0].Title)
	suite.Require().NotNil(response.Tasks[0].Project)
	assert.Equal(suite.T(), "Frontend", response.Tasks[0].Project.Name)
}

func (suite *QueryHandlerTestSuite) TestMyTasks_FiltersByProjectAndDates() {
	me := suite.createUser("me@example.com", models.RoleEmployee, nil)
	backend := suite.createProject("Backend", 1)
	frontend := suite.createProject("Frontend", 1)

	oldTask := suite.createTask("Old", backend.ID, &me.ID)
	suite.createTask("Recent", backend.ID, &me.ID)
	suite.createTask("Elsewhere", frontend.ID, &me.ID)

	cutoff := time.Now().Add(-24 * time.Hour)
	suite.db.Model(oldTask).Update("created_at", cutoff.Add(-time.Hour))

	url := fmt.Sprintf("/api/tasks/mine?project_id=%d&date_from=%d", backend.ID, cutoff.UnixMilli())
	c, w := suite.authContext("GET", url, nil, me.ID)
	suite.handler.MyTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.MyTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "Recent", response.Tasks[0].Title)
}

func (suite *QueryHandlerTestSuite) TestMyTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tasks/mine", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.MyTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *QueryHandlerTestSuite) TestAdminTasks_RequiresAdminRole() {
	worker := suite.createUser("worker@example.com", models.RoleEmployee, nil)

	c, w := suite.authContext("GET", "/api/tasks/admin", nil, worker.ID)
	suite.handler.AdminTasks(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *QueryHandlerTestSuite) TestAdminTasks_NoTeamYieldsEmpty() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin, nil)

	c, w := suite.authContext("GET", "/api/tasks/admin", nil, admin.ID)
	suite.handler.AdminTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.AdminTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(suite.T(), response.Tasks)
}

func (suite *QueryHandlerTestSuite) TestAdminTasks_FlattensTeamAndFiltersByCompleter() {
	teamID := uint64(1)
	admin := suite.createUser("admin@example.com", models.RoleAdmin, &teamID)
	worker := suite.createUser("worker@example.com", models.RoleEmployee, &teamID)

	backend := suite.createProject("Backend", teamID)
	frontend := suite.createProject("Frontend", teamID)
	otherTeam := suite.createProject("Foreign", 2)

	done := suite.createTask("Done by worker", backend.ID, &worker.ID)
	suite.db.Model(done).Updates(map[string]interface{}{
		"status":          models.TaskStatusDone,
		"completed_by_id": worker.ID,
	})
	suite.createTask("Still open", frontend.ID, &worker.ID)
	suite.createTask("Foreign task", otherTeam.ID, nil)

	url := fmt.Sprintf("/api/tasks/admin?completed_by=%d", worker.ID)
	c, w := suite.authContext("GET", url, nil, admin.ID)
	suite.handler.AdminTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.AdminTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)

	task := response.Tasks[0]
	assert.Equal(suite.T(), "Done by worker", task.Title)
	suite.Require().NotNil(task.Project)
	assert.Equal(suite.T(), "Backend", task.Project.Name)
	suite.Require().NotNil(task.CompletedByUser)
	assert.Equal(suite.T(), worker.Email, task.CompletedByUser.Email)

	// No assignment rows, so the resolved list falls back to the legacy
	// assignee.
	suite.Require().Len(task.AssigneesList, 1)
	assert.Equal(suite.T(), worker.Email, task.AssigneesList[0].Email)
	assert.Empty(suite.T(), task.ImageURLs)
}

func (suite *QueryHandlerTestSuite) TestAdminTasks_FiltersByAssigneeAcrossRepresentations() {
	teamID := uint64(1)
	admin := suite.createUser("admin@example.com", models.RoleAdmin, &teamID)
	worker := suite.createUser("worker@example.com", models.RoleEmployee, &teamID)
	other := suite.createUser("other@example.com", models.RoleEmployee, &teamID)

	backend := suite.createProject("Backend", teamID)

	viaList := suite.createTask("Via list", backend.ID, nil)
	suite.assign(viaList.ID, worker.ID, 0)
	suite.createTask("Via legacy", backend.ID, &worker.ID)
	suite.createTask("Unrelated", backend.ID, &other.ID)

	url := fmt.Sprintf("/api/tasks/admin?assigned_to=%d", worker.ID)
	c, w := suite.authContext("GET", url, nil, admin.ID)
	suite.handler.AdminTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.AdminTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 2)
	for _, task := range response.Tasks {
		assert.NotEqual(suite.T(), "Unrelated", task.Title)
	}
}

func (suite *QueryHandlerTestSuite) TestAdminTasks_NarrowsToOneProject() {
	teamID := uint64(1)
	admin := suite.createUser("admin@example.com", models.RoleAdmin, &teamID)

	backend := suite.createProject("Backend", teamID)
	frontend := suite.createProject("Frontend", teamID)
	suite.createTask("Backend work", backend.ID, nil)
	suite.createTask("Frontend work", frontend.ID, nil)

	url := fmt.Sprintf("/api/tasks/admin?project_id=%d", backend.ID)
	c, w := suite.authContext("GET", url, nil, admin.ID)
	suite.handler.AdminTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.AdminTaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "Backend work", response.Tasks[0].Title)
}

func TestQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlerTestSuite))
}
