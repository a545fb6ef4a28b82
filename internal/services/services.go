package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avdoshkin/task-manager/internal/forms"
	"github.com/avdoshkin/task-manager/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskForbidden        = errors.New("task access forbidden")
)

type AuthService interface {
	// Login authenticates the user by username and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*AuthResult, error)

	// Register a user with the given username and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given username already exists.
	Register(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

// TaskService is the shared CRUD contract behind both delivery
// surfaces. An instance is bound to the surface it serves; every
// object operation takes the authenticated actor, and the injected
// policy decides object-level access, returning ErrTaskForbidden on
// denial.
type TaskService interface {
	// CreateTask stores a new task assigned to the actor. The form
	// carries no assignee field and any assignee supplied upstream
	// is ignored.
	CreateTask(ctx context.Context, actor string, form *forms.TaskForm) (*models.Task, error)

	// ListTasks returns the actor's tasks in the configured order.
	ListTasks(ctx context.Context, actor string) ([]models.Task, error)

	GetTask(ctx context.Context, actor string, id int64) (*models.Task, error)

	// UpdateTask replaces every form-editable field. The assignee
	// is not form-editable and is preserved.
	UpdateTask(ctx context.Context, actor string, id int64, form *forms.TaskForm) (*models.Task, error)

	// PatchTask updates only the supplied fields.
	PatchTask(ctx context.Context, actor string, id int64, patch *forms.TaskPatch) (*models.Task, error)

	DeleteTask(ctx context.Context, actor string, id int64) error
}

type LoginParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type AuthResult struct {
	UserID                string
	Username              string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
