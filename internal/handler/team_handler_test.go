package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type teamServiceMock struct {
	createErr    error
	lastCreate   dto.CreateTeamRequest
	lastCaller   *models.Caller
	lastProgram  string
	lastProgress int
	lastMember   string
}

func (m *teamServiceMock) Create(ctx context.Context, req dto.CreateTeamRequest, caller *models.Caller) (*models.TeamWithMembers, error) {
	m.lastCreate = req
	m.lastCaller = caller
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.TeamWithMembers{Team: models.Team{ID: "team-1", Name: req.Name}}, nil
}

func (m *teamServiceMock) Get(ctx context.Context, teamID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	return &models.TeamWithMembers{Team: models.Team{ID: teamID}}, nil
}

func (m *teamServiceMock) ListForCaller(ctx context.Context, programID string, caller *models.Caller) ([]models.Team, error) {
	m.lastProgram = programID
	return []models.Team{{ID: "team-1"}}, nil
}

func (m *teamServiceMock) AddMember(ctx context.Context, teamID, userID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	m.lastMember = userID
	return &models.TeamWithMembers{Team: models.Team{ID: teamID}}, nil
}

func (m *teamServiceMock) RemoveMember(ctx context.Context, teamID, userID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	m.lastMember = userID
	return &models.TeamWithMembers{Team: models.Team{ID: teamID}}, nil
}

func (m *teamServiceMock) AssignSupervisor(ctx context.Context, teamID, supervisorID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	return &models.TeamWithMembers{Team: models.Team{ID: teamID, SupervisorID: &supervisorID}}, nil
}

func (m *teamServiceMock) UpdateProgress(ctx context.Context, teamID string, progress int, caller *models.Caller) (*models.TeamWithMembers, error) {
	m.lastProgress = progress
	return &models.TeamWithMembers{Team: models.Team{ID: teamID, Progress: progress}}, nil
}

func (m *teamServiceMock) ListActivity(ctx context.Context, teamID string, limit int, caller *models.Caller) ([]models.Activity, error) {
	return nil, nil
}

var adminCaller = &models.Caller{UserID: "admin", Role: models.RoleAdmin}

func TestTeamHandlerCreate(t *testing.T) {
	svc := &teamServiceMock{}
	h := NewTeamHandler(svc)

	c, w := jsonContext(http.MethodPost, "/teams", dto.CreateTeamRequest{ProgramID: "p1", Name: "Alpha", LeaderID: "l1"}, adminCaller)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Alpha", svc.lastCreate.Name)
	assert.Equal(t, adminCaller, svc.lastCaller)
}

func TestTeamHandlerCreateMapsDomainErrors(t *testing.T) {
	svc := &teamServiceMock{createErr: appErrors.Clone(appErrors.ErrConstraintViolation, "too small")}
	h := NewTeamHandler(svc)

	c, w := jsonContext(http.MethodPost, "/teams", dto.CreateTeamRequest{ProgramID: "p1", Name: "Alpha", LeaderID: "l1"}, adminCaller)
	h.Create(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.CodeConstraintViolation, env.Error.Code)
}

func TestTeamHandlerInvalidBody(t *testing.T) {
	h := NewTeamHandler(&teamServiceMock{})
	c, w := newTestContext(http.MethodPost, "/teams", bytes.NewBufferString(`{"name":`), adminCaller)
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamHandlerProgressAndMembers(t *testing.T) {
	svc := &teamServiceMock{}
	h := NewTeamHandler(svc)

	progress := 60
	c, w := jsonContext(http.MethodPut, "/teams/team-1/progress", dto.UpdateTeamProgressRequest{Progress: &progress}, adminCaller)
	c.Params = gin.Params{{Key: "id", Value: "team-1"}}
	h.UpdateProgress(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 60, svc.lastProgress)

	c, w = jsonContext(http.MethodPut, "/teams/team-1/progress", map[string]string{}, adminCaller)
	h.UpdateProgress(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodDelete, "/teams/team-1/members/u2", nil, adminCaller)
	c.Params = gin.Params{{Key: "id", Value: "team-1"}, {Key: "userId", Value: "u2"}}
	h.RemoveMember(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", svc.lastMember)

	c, w = newTestContext(http.MethodGet, "/teams?programId=p1", nil, adminCaller)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", svc.lastProgram)
}
