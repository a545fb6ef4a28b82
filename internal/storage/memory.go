package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/avdoshkin/task-manager/internal/models"
)

// In-memory store implementations. Selected by STORAGE_DRIVER=memory
// for local runs without a database, and used as fixtures in tests.

type MemoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]models.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		nextID: 1,
		tasks:  make(map[int64]models.Task),
	}
}

func (s *MemoryTaskStore) Insert(_ context.Context, task *models.Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	stored := *task
	stored.ID = id
	s.tasks[id] = stored
	return id, nil
}

func (s *MemoryTaskStore) GetByID(_ context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (s *MemoryTaskStore) Update(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryTaskStore) ListByAssignee(_ context.Context, userID, orderBy string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tasks []models.Task
	for _, task := range s.tasks {
		if task.AssignedTo(userID) {
			tasks = append(tasks, task)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if orderBy == OrderByCreatedAt {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		} else {
			if !a.DueDate.Equal(b.DueDate) {
				return a.DueDate.Before(b.DueDate)
			}
		}
		return a.ID < b.ID
	})
	return tasks, nil
}

// Count returns the number of stored tasks.
func (s *MemoryTaskStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]models.User),
	}
}

func (s *MemoryUserStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrAlreadyExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]models.Session),
	}
}

func (s *MemorySessionStore) Insert(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) GetByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) GetByRefreshToken(_ context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.RefreshToken == refreshToken && session.Fingerprint == fingerprint {
			return &session, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemorySessionStore) Update(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			affected++
		}
	}
	return affected, nil
}
