package todo

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
)

// Urgencies
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Todo is a task, optionally tied to a specific student. No student means a
// global task.
type Todo struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	StudentID   null.Int    `json:"student_id"`
	IsCompleted bool        `json:"is_completed"`
	DueDate     null.Time   `json:"due_date"`
	Urgency     string      `json:"urgency"`
}

// NewTodo contains information needed to create a new Todo.
type NewTodo struct {
	Title     string    `json:"title" validate:"required,notblank"`
	StudentID null.Int  `json:"student_id"`
	DueDate   null.Time `json:"due_date"`
	Urgency   string    `json:"urgency" validate:"omitempty,oneof=low medium high"`
}

func (nt *NewTodo) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	if nt.Urgency == "" {
		nt.Urgency = UrgencyMedium
	}
	return core.Validate.Struct(nt)
}

// UpdateTodo defines what information may be provided to modify an existing
// Todo. Zero-valued fields keep the original values.
type UpdateTodo struct {
	Title       string    `json:"title"`
	IsCompleted *bool     `json:"is_completed"`
	DueDate     null.Time `json:"due_date"`
	Urgency     string    `json:"urgency" validate:"omitempty,oneof=low medium high"`
}

func (ut *UpdateTodo) Validate(origTd Todo) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = origTd.Title
	}
	if ut.IsCompleted == nil {
		ut.IsCompleted = &origTd.IsCompleted
	}
	if !ut.DueDate.Valid {
		ut.DueDate = origTd.DueDate
	}
	if ut.Urgency == "" {
		ut.Urgency = origTd.Urgency
	}
	return core.Validate.Struct(ut)
}
