package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avdoshkin/task-manager/internal/forms"
	"github.com/avdoshkin/task-manager/internal/models"
	"github.com/avdoshkin/task-manager/internal/services"
)

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Status      string    `json:"status"`
	Assignee    *string   `json:"assignee"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.Format(forms.DueDateLayout),
		Status:      task.Status,
		Assignee:    task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	// Unknown fields, the assignee included, are silently dropped
	// by the decoder; the form is the allow-list.
	var form forms.TaskForm
	err := c.ShouldBindJSON(&form)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if errs := form.Validate(); errs != nil {
		h.logger.Debug().
			Int("fields", len(errs)).
			Msg("task form validation failed")
		abortValidation(c, errs)
		return
	}

	task, err := h.tasks.CreateTask(c, userID, &form)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	tasks, err := h.tasks.ListTasks(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i := range tasks {
		response[i] = newTaskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, userID, taskID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	var form forms.TaskForm
	err := c.ShouldBindJSON(&form)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if errs := form.Validate(); errs != nil {
		abortValidation(c, errs)
		return
	}

	task, err := h.tasks.UpdateTask(c, userID, taskID, &form)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandlePatchTask(c *gin.Context) {
	userID, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	var patch forms.TaskPatch
	err := c.ShouldBindJSON(&patch)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if errs := patch.Validate(); errs != nil {
		abortValidation(c, errs)
		return
	}

	task, err := h.tasks.PatchTask(c, userID, taskID, &patch)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// taskRequestParams pulls the actor from the request context and the
// task ID from the path, aborting the request on failure.
func (h *handlerImpl) taskRequestParams(c *gin.Context) (userID string, taskID int64, ok bool) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return "", 0, false
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Debug().
			Str("id", c.Param("id")).
			Msg("malformed task id")
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return "", 0, false
	}

	return userID, taskID, true
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskForbidden):
		abort(c, newForbiddenError(services.ErrTaskForbidden.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg("task operation failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
