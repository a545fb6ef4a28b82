package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/avdoshkin/task-manager/internal/authz"
	"github.com/avdoshkin/task-manager/internal/forms"
	"github.com/avdoshkin/task-manager/internal/storage"
)

func newTestTaskService(surface authz.Surface, enforceWebOwnership bool) (TaskService, *storage.MemoryTaskStore) {
	store := storage.NewMemoryTaskStore()
	policy := authz.NewPolicy(enforceWebOwnership)
	svc := NewTaskService(zerolog.Nop(), store, policy, surface, storage.OrderByDueDate)
	return svc, store
}

func createTask(t *testing.T, svc TaskService, actor, title, dueDate string) int64 {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), actor, &forms.TaskForm{
		Title:       title,
		Description: "Description",
		DueDate:     dueDate,
	})
	require.NoError(t, err)
	return task.ID
}

func TestCreateTaskForcesAssignee(t *testing.T) {
	svc, _ := newTestTaskService(authz.SurfaceAPI, false)

	task, err := svc.CreateTask(context.Background(), "user-a", &forms.TaskForm{
		Title:       "Test Task",
		Description: "Description",
		DueDate:     "2023-09-30",
	})
	require.NoError(t, err)

	require.True(t, task.AssignedTo("user-a"))
	require.Equal(t, "pending", task.Status)
	require.Equal(t, task.CreatedAt, task.UpdatedAt)
	require.Equal(t, time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC), task.DueDate)
}

func TestListTasksScopedToActor(t *testing.T) {
	svc, _ := newTestTaskService(authz.SurfaceAPI, false)

	createTask(t, svc, "user-a", "Later", "2023-10-15")
	createTask(t, svc, "user-a", "Sooner", "2023-09-30")
	createTask(t, svc, "user-b", "Other", "2023-01-01")

	tasks, err := svc.ListTasks(context.Background(), "user-a")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	for _, task := range tasks {
		require.True(t, task.AssignedTo("user-a"))
	}
	// Ascending by due date.
	require.Equal(t, "Sooner", tasks[0].Title)
	require.Equal(t, "Later", tasks[1].Title)
}

func TestGetTaskOwnershipBySurface(t *testing.T) {
	apiSvc, store := newTestTaskService(authz.SurfaceAPI, false)
	webSvc := NewTaskService(zerolog.Nop(), store, authz.NewPolicy(false), authz.SurfaceWeb, storage.OrderByDueDate)

	taskID := createTask(t, apiSvc, "user-a", "Test Task", "2023-09-30")

	_, err := apiSvc.GetTask(context.Background(), "user-b", taskID)
	require.ErrorIs(t, err, ErrTaskForbidden)

	// The browser surface historically exposes any task to any
	// authenticated user.
	task, err := webSvc.GetTask(context.Background(), "user-b", taskID)
	require.NoError(t, err)
	require.Equal(t, "Test Task", task.Title)

	strictWebSvc := NewTaskService(zerolog.Nop(), store, authz.NewPolicy(true), authz.SurfaceWeb, storage.OrderByDueDate)
	_, err = strictWebSvc.GetTask(context.Background(), "user-b", taskID)
	require.ErrorIs(t, err, ErrTaskForbidden)
}

func TestGetTaskNotFound(t *testing.T) {
	svc, _ := newTestTaskService(authz.SurfaceAPI, false)

	_, err := svc.GetTask(context.Background(), "user-a", 42)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestPatchTaskUpdatesOnlySuppliedFields(t *testing.T) {
	svc, _ := newTestTaskService(authz.SurfaceAPI, false)

	taskID := createTask(t, svc, "user-a", "Test Task", "2023-09-30")
	created, err := svc.GetTask(context.Background(), "user-a", taskID)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	status := "in_progress"
	patched, err := svc.PatchTask(context.Background(), "user-a", taskID, &forms.TaskPatch{
		Status: &status,
	})
	require.NoError(t, err)

	require.Equal(t, "in_progress", patched.Status)
	require.Equal(t, "Test Task", patched.Title)
	require.Equal(t, "Description", patched.Description)
	require.Equal(t, created.DueDate, patched.DueDate)
	require.Equal(t, created.CreatedAt, patched.CreatedAt)
	require.True(t, patched.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateTaskPreservesAssignee(t *testing.T) {
	svc, _ := newTestTaskService(authz.SurfaceAPI, false)

	taskID := createTask(t, svc, "user-a", "Test Task", "2023-09-30")

	updated, err := svc.UpdateTask(context.Background(), "user-a", taskID, &forms.TaskForm{
		Title:       "Updated Task",
		Description: "Updated Description",
		DueDate:     "2023-10-15",
		Status:      "in_progress",
	})
	require.NoError(t, err)

	require.Equal(t, "Updated Task", updated.Title)
	require.True(t, updated.AssignedTo("user-a"))
}

func TestDeleteTaskRequiresAssignee(t *testing.T) {
	svc, store := newTestTaskService(authz.SurfaceAPI, false)

	taskID := createTask(t, svc, "user-a", "Test Task", "2023-09-30")

	err := svc.DeleteTask(context.Background(), "user-b", taskID)
	require.ErrorIs(t, err, ErrTaskForbidden)
	require.Equal(t, 1, store.Count())

	err = svc.DeleteTask(context.Background(), "user-a", taskID)
	require.NoError(t, err)
	require.Equal(t, 0, store.Count())
}
