// Package forms validates incoming task payloads for both delivery
// surfaces. The editable field set per operation is the explicit
// allow-list defined by these structs; the assignee is deliberately
// absent from every form, so it can only be set by the service.
package forms

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/avdoshkin/task-manager/internal/models"
)

// DueDateLayout is the wire format for task due dates.
const DueDateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors maps a field name to a human-readable validation message.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// TaskForm is the field set accepted on create and full update.
type TaskForm struct {
	Title       string `json:"title" form:"title" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	DueDate     string `json:"due_date" form:"due_date" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status" form:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// Validate returns a non-empty Errors map when the form is invalid.
func (f *TaskForm) Validate() Errors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"form": "invalid payload"}
	}

	errs := make(Errors, len(verrs))
	for _, fe := range verrs {
		errs[fieldName(fe.Field())] = fieldMessage(fe)
	}
	return errs
}

// ParsedDueDate returns the due date as midnight UTC. Validate must
// have passed first.
func (f *TaskForm) ParsedDueDate() time.Time {
	t, _ := time.Parse(DueDateLayout, f.DueDate)
	return t
}

// StatusOrDefault returns the submitted status,
// or pending when the field was left empty.
func (f *TaskForm) StatusOrDefault() string {
	if f.Status == "" {
		return models.StatusPending
	}
	return f.Status
}

// TaskPatch is the field set accepted on partial update. Nil fields
// were not supplied and must be left unchanged.
type TaskPatch struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

func (p *TaskPatch) Validate() Errors {
	errs := make(Errors)

	if p.Title != nil && *p.Title == "" {
		errs["title"] = "this field may not be blank"
	}
	if p.Description != nil && *p.Description == "" {
		errs["description"] = "this field may not be blank"
	}

	err := validate.Struct(p)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Errors{"form": "invalid payload"}
		}
		for _, fe := range verrs {
			errs[fieldName(fe.Field())] = fieldMessage(fe)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Apply copies the supplied fields onto the task,
// leaving omitted fields untouched.
func (p *TaskPatch) Apply(task *models.Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.DueDate != nil {
		t, _ := time.Parse(DueDateLayout, *p.DueDate)
		task.DueDate = t
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
}

func fieldName(structField string) string {
	switch structField {
	case "Title":
		return "title"
	case "Description":
		return "description"
	case "DueDate":
		return "due_date"
	case "Status":
		return "status"
	}
	return structField
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: pending, in_progress, completed"
	}
	return "invalid value"
}
