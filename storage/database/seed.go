package database

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
	sqliterepos "github.com/trezcool/tutorsync/storage/database/sqlite"
)

// SeedIfEmpty populates the store with demo data when no students exist yet.
// A non-empty store is left untouched. Returns whether seeding happened.
func SeedIfEmpty(ctx context.Context, db core.DB) (bool, error) {
	studentRepo := sqliterepos.NewStudentRepository(db)
	lessonRepo := sqliterepos.NewLessonRepository(db)
	todoRepo := sqliterepos.NewTodoRepository(db)

	cnt, err := studentRepo.CountStudents(ctx)
	if err != nil {
		return false, err
	}
	if cnt > 0 {
		return false, nil
	}

	now := time.Now()
	err = core.RunInTx(ctx, db, func(tx core.DBTransactor) error {
		// clear leftover rows from dependent tables so the demo data stands alone
		for _, table := range []string{"score_logs", "lessons", "todos", "students"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}

		sarah, err := studentRepo.CreateStudent(ctx, student.Student{
			Name:          "Sarah Tan",
			ParentContact: "+65 9123 4567",
			Location:      "Block 123 Ang Mo Kio Ave 3",
			Subject:       "Mathematics",
			Level:         "GCE O-Level",
			ExamTopics:    null.StringFrom("Algebra, Trigonometry"),
			ExamDate:      null.TimeFrom(time.Date(2026, time.October, 15, 0, 0, 0, 0, time.Local)),
			HourlyRate:    60,
			CreatedAt:     now.UTC(),
		}, tx)
		if err != nil {
			return err
		}

		john, err := studentRepo.CreateStudent(ctx, student.Student{
			Name:          "John Doe",
			ParentContact: "+65 8234 5678",
			Location:      "Condo 45 Orchard Road",
			Subject:       "H2 Mathematics",
			Level:         "A-Level",
			ExamTopics:    null.StringFrom("Calculus, Vectors"),
			ExamDate:      null.TimeFrom(time.Date(2026, time.November, 5, 0, 0, 0, 0, time.Local)),
			HourlyRate:    80,
			CreatedAt:     now.UTC(),
		}, tx)
		if err != nil {
			return err
		}

		if _, err = lessonRepo.CreateLesson(ctx, lesson.Lesson{
			StudentID:     sarah.ID,
			Date:          now,
			Status:        lesson.StatusScheduled,
			PaymentStatus: lesson.PaymentUnpaid,
			TopicsForNext: null.StringFrom("Revision on Quadratic Equations"),
			DurationHours: 2,
		}, tx); err != nil {
			return err
		}
		if _, err = lessonRepo.CreateLesson(ctx, lesson.Lesson{
			StudentID:     john.ID,
			Date:          now.AddDate(0, 0, 1),
			Status:        lesson.StatusScheduled,
			PaymentStatus: lesson.PaymentUnpaid,
			TopicsForNext: null.StringFrom("Integration techniques"),
			DurationHours: 1.5,
		}, tx); err != nil {
			return err
		}

		if _, err = todoRepo.CreateTodo(ctx, todo.Todo{
			Title:     "Grade mock paper for Sarah",
			StudentID: null.IntFrom(sarah.ID),
			Urgency:   todo.UrgencyHigh,
		}, tx); err != nil {
			return err
		}
		_, err = todoRepo.CreateTodo(ctx, todo.Todo{
			Title:     "Print integration worksheets for John",
			StudentID: null.IntFrom(john.ID),
			Urgency:   todo.UrgencyMedium,
		}, tx)
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
