package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/response"
)

// maxMultipartMemory bounds the in-memory part of a multipart body.
const maxMultipartMemory = 32 << 20

type taskService interface {
	CreateWorkProgram(ctx context.Context, teamID string, req dto.CreateWorkProgramRequest, caller *models.Caller) (*models.WorkProgramDetail, error)
	GetWorkProgram(ctx context.Context, id string, caller *models.Caller) (*models.WorkProgramDetail, error)
	ListWorkPrograms(ctx context.Context, teamID string, caller *models.Caller) ([]models.WorkProgram, error)
	CreateTask(ctx context.Context, teamID string, req dto.CreateTaskRequest, caller *models.Caller) (*models.Task, error)
	GetTask(ctx context.Context, taskID string, caller *models.Caller) (*models.TaskDetail, error)
	ListTasks(ctx context.Context, teamID, workProgramID string, caller *models.Caller) ([]models.Task, error)
	UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, files []dto.UploadedFile, caller *models.Caller) (*models.TaskDetail, error)
	AddTaskUpdate(ctx context.Context, taskID string, req dto.AddTaskUpdateRequest, caller *models.Caller) (*models.TaskUpdate, error)
	DeleteTask(ctx context.Context, taskID string, caller *models.Caller) error
}

// TaskHandler exposes work programs and tasks.
type TaskHandler struct {
	service taskService
}

// NewTaskHandler builds the handler.
func NewTaskHandler(service taskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateWorkProgram godoc
// @Summary Create a work program
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.CreateWorkProgramRequest true "Work program"
// @Success 201 {object} response.Envelope
// @Router /teams/{id}/work-programs [post]
func (h *TaskHandler) CreateWorkProgram(c *gin.Context) {
	var req dto.CreateWorkProgramRequest
	if !bindJSON(c, &req, "invalid work program payload") {
		return
	}
	wp, err := h.service.CreateWorkProgram(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, wp)
}

// ListWorkPrograms godoc
// @Summary List team work programs
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/work-programs [get]
func (h *TaskHandler) ListWorkPrograms(c *gin.Context) {
	items, err := h.service.ListWorkPrograms(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// GetWorkProgram godoc
// @Summary Get a work program with per-member progress
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Work program ID"
// @Success 200 {object} response.Envelope
// @Router /work-programs/{id} [get]
func (h *TaskHandler) GetWorkProgram(c *gin.Context) {
	wp, err := h.service.GetWorkProgram(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wp, nil)
}

// CreateTask godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.CreateTaskRequest true "Task"
// @Success 201 {object} response.Envelope
// @Router /teams/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req, "invalid task payload") {
		return
	}
	task, err := h.service.CreateTask(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// ListTasks godoc
// @Summary List team tasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param workProgramId query string false "Work program filter"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context(), c.Param("id"), c.Query("workProgramId"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}

// GetTask godoc
// @Summary Get a task with artifacts and updates
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// UpdateTask godoc
// @Summary Update or complete a task
// @Description Multipart bodies carry the completion evidence under files[]; JSON bodies patch fields only.
// @Tags Tasks
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param payload body dto.UpdateTaskRequest false "Task patch"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var (
		req   dto.UpdateTaskRequest
		files []dto.UploadedFile
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart body"))
			return
		}
		req, err = taskPatchFromForm(form.Value)
		if err != nil {
			response.Error(c, err)
			return
		}
		opened, closeAll, err := openUploads(append(form.File["files[]"], form.File["files"]...))
		if err != nil {
			response.Error(c, err)
			return
		}
		defer closeAll()
		files = opened
	} else if !bindJSON(c, &req, "invalid task payload") {
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), c.Param("id"), req, files, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

func taskPatchFromForm(values map[string][]string) (dto.UpdateTaskRequest, error) {
	var req dto.UpdateTaskRequest
	first := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := v[0]
		return &s
	}
	req.Title = first("title")
	req.Description = first("description")
	req.StartDate = first("startDate")
	req.DueDate = first("dueDate")
	if ids, ok := values["assigneeIds"]; ok {
		var flat []string
		for _, v := range ids {
			for _, id := range strings.Split(v, ",") {
				if id = strings.TrimSpace(id); id != "" {
					flat = append(flat, id)
				}
			}
		}
		req.AssigneeIDs = &flat
	}
	if raw := first("completed"); raw != nil {
		completed, err := strconv.ParseBool(*raw)
		if err != nil {
			return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "completed must be a boolean")
		}
		req.Completed = &completed
	}
	return req, nil
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.service.DeleteTask(c.Request.Context(), c.Param("id"), callerFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddUpdate godoc
// @Summary Append a task progress note
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param payload body dto.AddTaskUpdateRequest true "Update"
// @Success 201 {object} response.Envelope
// @Router /tasks/{id}/updates [post]
func (h *TaskHandler) AddUpdate(c *gin.Context) {
	var req dto.AddTaskUpdateRequest
	if !bindJSON(c, &req, "invalid task update payload") {
		return
	}
	update, err := h.service.AddTaskUpdate(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, update)
}
