package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
)

type Student struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	ParentContact string      `json:"parent_contact"`
	Location      string      `json:"location"`
	Subject       string      `json:"subject"`
	Level         string      `json:"level"`
	ExamTopics    null.String `json:"exam_topics"`
	ExamDate      null.Time   `json:"exam_date"`
	HourlyRate    float64     `json:"hourly_rate"`
	CreatedAt     time.Time   `json:"created_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name          string    `json:"name" validate:"required,notblank"`
	ParentContact string    `json:"parent_contact" validate:"required,notblank"`
	Location      string    `json:"location" validate:"required,notblank"`
	Subject       string    `json:"subject" validate:"required,notblank"`
	Level         string    `json:"level" validate:"required,notblank"`
	ExamTopics    string    `json:"exam_topics"`
	ExamDate      null.Time `json:"exam_date"`
	HourlyRate    float64   `json:"hourly_rate" validate:"gte=0"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.ParentContact = core.CleanString(ns.ParentContact)
	ns.Location = core.CleanString(ns.Location)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Level = core.CleanString(ns.Level)
	ns.ExamTopics = core.CleanString(ns.ExamTopics)

	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing
// Student. Zero-valued fields keep the original values.
type UpdateStudent struct {
	Name          string    `json:"name"`
	ParentContact string    `json:"parent_contact"`
	Location      string    `json:"location"`
	Subject       string    `json:"subject"`
	Level         string    `json:"level"`
	ExamTopics    string    `json:"exam_topics"`
	ExamDate      null.Time `json:"exam_date"`
	HourlyRate    *float64  `json:"hourly_rate" validate:"omitempty,gte=0"`
}

func (us *UpdateStudent) Validate(origStu Student) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = origStu.Name
	}
	if contact := core.CleanString(us.ParentContact); contact != "" {
		us.ParentContact = contact
	} else {
		us.ParentContact = origStu.ParentContact
	}
	if location := core.CleanString(us.Location); location != "" {
		us.Location = location
	} else {
		us.Location = origStu.Location
	}
	if subject := core.CleanString(us.Subject); subject != "" {
		us.Subject = subject
	} else {
		us.Subject = origStu.Subject
	}
	if level := core.CleanString(us.Level); level != "" {
		us.Level = level
	} else {
		us.Level = origStu.Level
	}
	if topics := core.CleanString(us.ExamTopics); topics != "" {
		us.ExamTopics = topics
	} else {
		us.ExamTopics = origStu.ExamTopics.String
	}
	if !us.ExamDate.Valid {
		us.ExamDate = origStu.ExamDate
	}

	return core.Validate.Struct(us)
}
