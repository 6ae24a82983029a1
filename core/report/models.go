package report

import (
	"time"

	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
)

// Trend directions
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// ScheduledLesson is a Lesson joined to its Student for display. Student is
// nil when the lesson references a deleted student; the row still surfaces.
type ScheduledLesson struct {
	lesson.Lesson
	Student *student.Student
}

type TrendPoint struct {
	Label      string
	Score      float64
	RecordedAt time.Time
}

// ScoreTrend is one student's test-score progression: all parsable scores in
// chronological order, their arithmetic mean, and the first-to-last direction.
type ScoreTrend struct {
	Points    []TrendPoint
	Average   float64
	Direction string
}

// BillingRow is a Lesson joined to its Student with the derived cost. Cost is
// never stored: it is hourlyRate x durationHours against the student's
// current rate, and 0 when the student is gone.
type BillingRow struct {
	lesson.Lesson
	Student *student.Student
	Cost    float64
}

type BillingSummary struct {
	Rows         []BillingRow
	Outstanding  float64 // unpaid + pending lessons, any date
	MonthRevenue float64 // paid lessons in the current local calendar month
}

type Overview struct {
	StudentCount    int
	LessonsThisWeek int
	Upcoming        []ScheduledLesson
	PendingTodos    []todo.Todo
}
