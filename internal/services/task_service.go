package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/avdoshkin/task-manager/internal/authz"
	"github.com/avdoshkin/task-manager/internal/forms"
	"github.com/avdoshkin/task-manager/internal/models"
	"github.com/avdoshkin/task-manager/internal/storage"
)

type taskServiceImpl struct {
	logger    zerolog.Logger
	tasks     storage.TaskStore
	policy    authz.Policy
	surface   authz.Surface
	listOrder string
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
	policy authz.Policy,
	surface authz.Surface,
	listOrder string,
) TaskService {
	return &taskServiceImpl{
		logger:    logger,
		tasks:     tasks,
		policy:    policy,
		surface:   surface,
		listOrder: listOrder,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, actor string, form *forms.TaskForm) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     form.ParsedDueDate(),
		Status:      form.StatusOrDefault(),
		AssigneeID:  &actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	taskID, err := s.tasks.Insert(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	task.ID = taskID

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", actor).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, actor string) ([]models.Task, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, actor, s.listOrder)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", actor).
			Msg("failed to list tasks")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", actor).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, actor string, id int64) (*models.Task, error) {
	task, err := s.loadAllowed(ctx, actor, id, authz.OpView)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", actor).
		Msg("task found")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, actor string, id int64, form *forms.TaskForm) (*models.Task, error) {
	task, err := s.loadAllowed(ctx, actor, id, authz.OpUpdate)
	if err != nil {
		return nil, err
	}

	// The assignee is not form-editable; it survives the update.
	task.Title = form.Title
	task.Description = form.Description
	task.DueDate = form.ParsedDueDate()
	task.Status = form.StatusOrDefault()
	task.UpdatedAt = time.Now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", actor).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) PatchTask(ctx context.Context, actor string, id int64, patch *forms.TaskPatch) (*models.Task, error) {
	task, err := s.loadAllowed(ctx, actor, id, authz.OpUpdate)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	task.UpdatedAt = time.Now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to patch task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", actor).
		Msg("patched task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, actor string, id int64) error {
	task, err := s.loadAllowed(ctx, actor, id, authz.OpDelete)
	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", actor).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) loadAllowed(ctx context.Context, actor string, id int64, op authz.Operation) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	if !s.policy.Allows(actor, task, op, s.surface) {
		s.logger.Warn().
			Int64("task_id", task.ID).
			Str("user_id", actor).
			Str("operation", string(op)).
			Str("surface", string(s.surface)).
			Msg("task access denied")
		return nil, ErrTaskForbidden
	}

	return task, nil
}
