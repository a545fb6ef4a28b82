package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avdoshkin/task-manager/internal/models"
)

type postgresTaskStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresTaskStore(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskStore {
	return &postgresTaskStore{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *postgresTaskStore) Insert(ctx context.Context, task *models.Task) (int64, error) {
	const insertTaskQuery = `
INSERT INTO tasks (title,
                   description,
                   due_date,
                   status,
                   assignee_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	var taskID int64
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.AssigneeID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return 0, err
	}
	s.logger.Debug().
		Int64("task_id", taskID).
		Msg("inserted task")

	return taskID, nil
}

func (s *postgresTaskStore) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task := &models.Task{ID: id}

	const selectTaskByIDQuery = `
SELECT title,
       description,
       due_date,
       status,
       assignee_id,
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.AssigneeID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Int64("task_id", task.ID).
				Msg("task not found")
			return nil, ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to select task by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task by id")

	return task, nil
}

func (s *postgresTaskStore) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    due_date = $3,
    status = $4,
    assignee_id = $5,
    updated_at = $6
WHERE id = $7
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.AssigneeID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Int64("task_id", task.ID).
			Msg("task not found")
		return ErrNotFound
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	return nil
}

func (s *postgresTaskStore) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Int64("task_id", id).
			Msg("task not found")
		return ErrNotFound
	}
	s.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")

	return nil
}

func (s *postgresTaskStore) ListByAssignee(ctx context.Context, userID, orderBy string) ([]models.Task, error) {
	const selectTasksByDueDateQuery = `
SELECT id,
       title,
       description,
       due_date,
       status,
       assignee_id,
       created_at,
       updated_at
FROM tasks
WHERE assignee_id = $1
ORDER BY due_date ASC, id ASC
`
	const selectTasksByCreatedAtQuery = `
SELECT id,
       title,
       description,
       due_date,
       status,
       assignee_id,
       created_at,
       updated_at
FROM tasks
WHERE assignee_id = $1
ORDER BY created_at ASC, id ASC
`

	query := selectTasksByDueDateQuery
	if orderBy == OrderByCreatedAt {
		query = selectTasksByCreatedAtQuery
	}

	rows, err := s.pgPool.Query(
		ctx,
		query,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by assignee")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Status,
			&task.AssigneeID,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by assignee")

	return tasks, nil
}
