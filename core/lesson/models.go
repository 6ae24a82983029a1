package lesson

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
)

// Lesson statuses
const (
	StatusScheduled = "scheduled"
	StatusPast      = "past"
)

// Payment statuses
const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type Lesson struct {
	ID            int         `json:"id"`
	StudentID     int         `json:"student_id"`
	Date          time.Time   `json:"date"` // local wall-clock; stored in UTC
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	TopicsCovered null.String `json:"topics_covered"`
	TopicsForNext null.String `json:"topics_for_next"`
	DurationHours float64     `json:"duration_hours"`
}

func (l Lesson) IsScheduled() bool {
	return l.Status == StatusScheduled
}

// NewLesson contains information needed to schedule a new Lesson.
type NewLesson struct {
	StudentID     int       `json:"student_id" validate:"required"`
	Date          time.Time `json:"date" validate:"required"`
	DurationHours float64   `json:"duration_hours" validate:"gt=0"`
	PaymentStatus string    `json:"payment_status" validate:"omitempty,oneof=unpaid pending paid"`
	TopicsForNext string    `json:"topics_for_next"`
}

func (nl *NewLesson) Validate() error {
	nl.TopicsForNext = core.CleanString(nl.TopicsForNext)
	if nl.PaymentStatus == "" {
		nl.PaymentStatus = PaymentUnpaid
	}
	return core.Validate.Struct(nl)
}

// UpdateLesson defines what information may be provided to modify an existing
// Lesson. Zero-valued fields keep the original values.
type UpdateLesson struct {
	StudentID     *int      `json:"student_id"`
	Date          time.Time `json:"date"`
	DurationHours *float64  `json:"duration_hours" validate:"omitempty,gt=0"`
	PaymentStatus string    `json:"payment_status" validate:"omitempty,oneof=unpaid pending paid"`
	TopicsCovered string    `json:"topics_covered"`
	TopicsForNext string    `json:"topics_for_next"`
}

func (ul *UpdateLesson) Validate(origLes Lesson) error {
	if ul.StudentID == nil {
		ul.StudentID = &origLes.StudentID
	}
	if ul.Date.IsZero() {
		ul.Date = origLes.Date
	}
	if ul.DurationHours == nil {
		ul.DurationHours = &origLes.DurationHours
	}
	if ul.PaymentStatus == "" {
		ul.PaymentStatus = origLes.PaymentStatus
	}
	if covered := core.CleanString(ul.TopicsCovered); covered != "" {
		ul.TopicsCovered = covered
	} else {
		ul.TopicsCovered = origLes.TopicsCovered.String
	}
	if next := core.CleanString(ul.TopicsForNext); next != "" {
		ul.TopicsForNext = next
	} else {
		ul.TopicsForNext = origLes.TopicsForNext.String
	}

	return core.Validate.Struct(ul)
}

// QueryFilter applies AND operation on available fields.
type QueryFilter struct {
	StudentID       int
	Status          string
	PaymentStatuses []string
	DateFrom        time.Time // inclusive
	DateTo          time.Time // inclusive
	Limit           int
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil ||
		(qf.StudentID == 0 && qf.Status == "" && qf.PaymentStatuses == nil &&
			qf.DateFrom.IsZero() && qf.DateTo.IsZero() && qf.Limit == 0)
}
