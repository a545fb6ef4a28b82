package authz

import (
	"testing"

	"github.com/avdoshkin/task-manager/internal/models"
)

func TestPolicyAllows(t *testing.T) {
	owner := "user-a"
	other := "user-b"

	ownedTask := &models.Task{ID: 1, AssigneeID: &owner}
	unassignedTask := &models.Task{ID: 2}

	tests := []struct {
		name             string
		enforceOwnership bool
		actor            string
		task             *models.Task
		op               Operation
		surface          Surface
		want             bool
	}{
		{
			name:    "api view by assignee",
			actor:   owner,
			task:    ownedTask,
			op:      OpView,
			surface: SurfaceAPI,
			want:    true,
		},
		{
			name:    "api view by non-assignee",
			actor:   other,
			task:    ownedTask,
			op:      OpView,
			surface: SurfaceAPI,
			want:    false,
		},
		{
			name:    "api update by non-assignee",
			actor:   other,
			task:    ownedTask,
			op:      OpUpdate,
			surface: SurfaceAPI,
			want:    false,
		},
		{
			name:    "api delete by assignee",
			actor:   owner,
			task:    ownedTask,
			op:      OpDelete,
			surface: SurfaceAPI,
			want:    true,
		},
		{
			name:    "api delete by non-assignee",
			actor:   other,
			task:    ownedTask,
			op:      OpDelete,
			surface: SurfaceAPI,
			want:    false,
		},
		{
			name:    "api view of unassigned task",
			actor:   owner,
			task:    unassignedTask,
			op:      OpView,
			surface: SurfaceAPI,
			want:    false,
		},
		{
			name:    "web view by non-assignee",
			actor:   other,
			task:    ownedTask,
			op:      OpView,
			surface: SurfaceWeb,
			want:    true,
		},
		{
			name:    "web update by non-assignee",
			actor:   other,
			task:    ownedTask,
			op:      OpUpdate,
			surface: SurfaceWeb,
			want:    true,
		},
		{
			name:    "web delete by non-assignee",
			actor:   other,
			task:    ownedTask,
			op:      OpDelete,
			surface: SurfaceWeb,
			want:    false,
		},
		{
			name:    "web delete by assignee",
			actor:   owner,
			task:    ownedTask,
			op:      OpDelete,
			surface: SurfaceWeb,
			want:    true,
		},
		{
			name:             "web view by non-assignee with ownership enforced",
			enforceOwnership: true,
			actor:            other,
			task:             ownedTask,
			op:               OpView,
			surface:          SurfaceWeb,
			want:             false,
		},
		{
			name:             "web update by non-assignee with ownership enforced",
			enforceOwnership: true,
			actor:            other,
			task:             ownedTask,
			op:               OpUpdate,
			surface:          SurfaceWeb,
			want:             false,
		},
		{
			name:             "web view by assignee with ownership enforced",
			enforceOwnership: true,
			actor:            owner,
			task:             ownedTask,
			op:               OpView,
			surface:          SurfaceWeb,
			want:             true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewPolicy(tt.enforceOwnership)
			got := policy.Allows(tt.actor, tt.task, tt.op, tt.surface)
			if got != tt.want {
				t.Errorf("Allows(%q, task %d, %s, %s) = %v, want %v",
					tt.actor, tt.task.ID, tt.op, tt.surface, got, tt.want)
			}
		})
	}
}
