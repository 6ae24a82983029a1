package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/scorelog"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
	"github.com/trezcool/tutorsync/storage/database"
)

func init() {
	core.InitValidators()
}

// PrepareDB opens a throwaway SQLite store under t.TempDir and migrates it.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := new(core.Config)
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, subject string,
	hourlyRate float64,
) student.Student {
	t.Helper()

	stu, err := repo.CreateStudent(context.Background(), student.Student{
		Name:          name,
		ParentContact: "+65 9000 0000",
		Location:      "Blk 1 Test Street",
		Subject:       subject,
		Level:         "GCE O-Level",
		HourlyRate:    hourlyRate,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateLesson(
	t *testing.T,
	repo lesson.Repository,
	studentID int,
	date time.Time,
	durationHours float64,
	status, paymentStatus string,
) lesson.Lesson {
	t.Helper()

	les, err := repo.CreateLesson(context.Background(), lesson.Lesson{
		StudentID:     studentID,
		Date:          date,
		Status:        status,
		PaymentStatus: paymentStatus,
		DurationHours: durationHours,
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return les
}

func CreateScoreLog(
	t *testing.T,
	repo scorelog.Repository,
	studentID int,
	label, score string,
	recordedAt time.Time,
) scorelog.ScoreLog {
	t.Helper()

	log, err := repo.CreateScoreLog(context.Background(), scorelog.ScoreLog{
		StudentID:  studentID,
		Label:      label,
		Score:      score,
		RecordedAt: recordedAt.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateScoreLog() failed: %v", err)
	}
	return log
}

func CreateTodo(
	t *testing.T,
	repo todo.Repository,
	title string,
	studentID null.Int,
	isCompleted bool,
	urgency string,
) todo.Todo {
	t.Helper()

	td, err := repo.CreateTodo(context.Background(), todo.Todo{
		Title:       title,
		StudentID:   studentID,
		IsCompleted: isCompleted,
		Urgency:     urgency,
	})
	if err != nil {
		t.Fatalf("CreateTodo() failed: %v", err)
	}
	return td
}
