package storage

import (
	"context"
	"errors"

	"github.com/avdoshkin/task-manager/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Task list ordering columns. ORDER BY cannot be
// parameterized, so the set is closed.
const (
	OrderByDueDate   = "due_date"
	OrderByCreatedAt = "created_at"
)

type TaskStore interface {
	// Insert persists a new task and returns its assigned ID.
	Insert(ctx context.Context, task *models.Task) (int64, error)

	// GetByID returns ErrNotFound if no task has the given ID.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// Update replaces every mutable field of the task with the
	// given ID. It returns ErrNotFound if the task is absent.
	Update(ctx context.Context, task *models.Task) error

	// Delete returns ErrNotFound if the task is absent.
	Delete(ctx context.Context, id int64) error

	// ListByAssignee returns the tasks assigned to the given
	// user, ordered ascending by the given column.
	ListByAssignee(ctx context.Context, userID, orderBy string) ([]models.Task, error)
}

type UserStore interface {
	// Insert returns ErrAlreadyExists if the username is taken.
	Insert(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type SessionStore interface {
	Insert(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error

	// DeleteByUserID removes every session of the given user
	// and returns the number of sessions removed.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
