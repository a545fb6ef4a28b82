package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avdoshkin/task-manager/internal/forms"
	"github.com/avdoshkin/task-manager/internal/models"
	"github.com/avdoshkin/task-manager/internal/services"
)

type taskView struct {
	ID          int64
	Title       string
	Description string
	DueDate     string
	Status      string
	Mine        bool
}

func newTaskView(task *models.Task, actor string) taskView {
	return taskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.Format(forms.DueDateLayout),
		Status:      task.Status,
		Mine:        task.AssignedTo(actor),
	}
}

func (h *handlerImpl) HandleTaskList(c *gin.Context) {
	actor, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.redirectToLogin(c)
		return
	}

	tasks, err := h.tasks.ListTasks(c, actor)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	views := make([]taskView, len(tasks))
	for i := range tasks {
		views[i] = newTaskView(&tasks[i], actor)
	}

	c.HTML(http.StatusOK, "task_list.html", gin.H{
		"Tasks": views,
	})
}

func (h *handlerImpl) HandleTaskDetail(c *gin.Context) {
	actor, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, actor, taskID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_detail.html", gin.H{
		"Task": newTaskView(task, actor),
	})
}

func (h *handlerImpl) HandleTaskCreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Heading": "Create task",
		"Action":  "/tasks/create/",
		"Form":    forms.TaskForm{},
		"Errors":  forms.Errors{},
	})
}

func (h *handlerImpl) HandleTaskCreateSubmit(c *gin.Context) {
	actor, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.redirectToLogin(c)
		return
	}

	form := h.bindTaskForm(c)
	if errs := form.Validate(); errs != nil {
		c.HTML(http.StatusBadRequest, "task_form.html", gin.H{
			"Heading": "Create task",
			"Action":  "/tasks/create/",
			"Form":    form,
			"Errors":  errs,
		})
		return
	}

	_, err := h.tasks.CreateTask(c, actor, &form)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, listPath)
}

func (h *handlerImpl) HandleTaskEditPage(c *gin.Context) {
	actor, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, actor, taskID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Heading": "Edit task",
		"Action":  editPath(task.ID),
		"Form": forms.TaskForm{
			Title:       task.Title,
			Description: task.Description,
			DueDate:     task.DueDate.Format(forms.DueDateLayout),
			Status:      task.Status,
		},
		"Errors": forms.Errors{},
	})
}

func (h *handlerImpl) HandleTaskEditSubmit(c *gin.Context) {
	actor, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	form := h.bindTaskForm(c)
	if errs := form.Validate(); errs != nil {
		c.HTML(http.StatusBadRequest, "task_form.html", gin.H{
			"Heading": "Edit task",
			"Action":  editPath(taskID),
			"Form":    form,
			"Errors":  errs,
		})
		return
	}

	_, err := h.tasks.UpdateTask(c, actor, taskID, &form)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.Redirect(http.StatusFound, listPath)
}

func (h *handlerImpl) HandleTaskDeletePage(c *gin.Context) {
	actor, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, actor, taskID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_confirm_delete.html", gin.H{
		"Task": newTaskView(task, actor),
	})
}

func (h *handlerImpl) HandleTaskDeleteSubmit(c *gin.Context) {
	actor, taskID, ok := h.taskRequestParams(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, actor, taskID)
	if err != nil {
		// A delete attempt by a non-assignee is swallowed: the
		// browser flow has always answered with the list page,
		// never with a denial.
		if errors.Is(err, services.ErrTaskForbidden) {
			h.logger.Warn().
				Int64("task_id", taskID).
				Str("user_id", actor).
				Msg("delete by non-assignee ignored")
			c.Redirect(http.StatusFound, listPath)
			return
		}

		h.abortTaskError(c, err)
		return
	}

	c.Redirect(http.StatusFound, listPath)
}

func (h *handlerImpl) bindTaskForm(c *gin.Context) forms.TaskForm {
	var form forms.TaskForm
	// Binding errors surface through form.Validate; the form
	// struct carries no binding tags.
	_ = c.ShouldBind(&form)
	return form
}

func (h *handlerImpl) taskRequestParams(c *gin.Context) (actor string, taskID int64, ok bool) {
	actor, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.redirectToLogin(c)
		return "", 0, false
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return "", 0, false
	}

	return actor, taskID, true
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		h.notFound(c)
	case errors.Is(err, services.ErrTaskForbidden):
		// Ownership enforcement hides the record entirely.
		h.notFound(c)
	default:
		h.logger.Error().
			Err(err).
			Msg("task operation failed")
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (h *handlerImpl) notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "task not found")
	c.Abort()
}

func editPath(taskID int64) string {
	return listPath + strconv.FormatInt(taskID, 10) + "/edit/"
}
