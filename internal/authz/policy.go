// Package authz holds the object-level permission rules for tasks.
//
// Both delivery surfaces consult the same decision function, so the
// rules for a surface live in exactly one place. The browser surface
// historically allowed any authenticated user to view and edit any
// task while the API required assignee match; that divergence is kept
// explicit here instead of being buried in two handler sets.
package authz

import "github.com/avdoshkin/task-manager/internal/models"

type Operation string

const (
	OpView   Operation = "view"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Surface string

const (
	SurfaceAPI Surface = "api"
	SurfaceWeb Surface = "web"
)

type Policy struct {
	// webEnforceOwnership unifies the web view/update rules
	// with the API assignee rule.
	webEnforceOwnership bool
}

func NewPolicy(webEnforceOwnership bool) Policy {
	return Policy{webEnforceOwnership: webEnforceOwnership}
}

// Allows decides whether the authenticated actor may perform op on
// the task through the given surface. The actor is always
// authenticated by the time the policy runs; unauthenticated requests
// are rejected by the delivery middleware.
func (p Policy) Allows(actor string, task *models.Task, op Operation, surface Surface) bool {
	switch surface {
	case SurfaceAPI:
		// Assignee-only, every object operation.
		return task.AssignedTo(actor)
	case SurfaceWeb:
		switch op {
		case OpView, OpUpdate:
			if p.webEnforceOwnership {
				return task.AssignedTo(actor)
			}
			return true
		case OpDelete:
			return task.AssignedTo(actor)
		}
	}
	return false
}
