package scorelog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/scorelog"
	"github.com/trezcool/tutorsync/core/student"
	sqliterepos "github.com/trezcool/tutorsync/storage/database/sqlite"
	testutil "github.com/trezcool/tutorsync/tests"
)

func setup(t *testing.T) (*scorelog.Service, scorelog.Repository, lesson.Repository, student.Student) {
	db := testutil.PrepareDB(t)
	stuRepo := sqliterepos.NewStudentRepository(db)
	lesRepo := sqliterepos.NewLessonRepository(db)
	scoreRepo := sqliterepos.NewScoreLogRepository(db)

	svc := scorelog.NewService(scoreRepo, stuRepo, lesRepo, core.NewBroker())
	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)
	return svc, scoreRepo, lesRepo, stu
}

func TestService_Add(t *testing.T) {
	svc, _, lesRepo, stu := setup(t)
	ctx := context.Background()

	pastLes := testutil.CreateLesson(t, lesRepo, stu.ID, time.Now().AddDate(0, 0, -1), 1, lesson.StatusPast, lesson.PaymentPaid)
	schedLes := testutil.CreateLesson(t, lesRepo, stu.ID, time.Now().AddDate(0, 0, 1), 1, lesson.StatusScheduled, lesson.PaymentUnpaid)

	tests := []struct {
		name    string
		payload scorelog.NewScoreLog
		wantErr bool
	}{
		{name: "missing student", payload: scorelog.NewScoreLog{Label: "CA1", Score: "70"}, wantErr: true},
		{name: "unknown student", payload: scorelog.NewScoreLog{StudentID: stu.ID + 99, Label: "CA1", Score: "70"}, wantErr: true},
		{name: "blank label", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: " ", Score: "70"}, wantErr: true},
		{name: "non-numeric score", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: "CA1", Score: "seventy"}, wantErr: true},
		{name: "score above 100", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: "CA1", Score: "150"}, wantErr: true},
		{name: "scheduled lesson binding", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: "CA1", Score: "70", LessonID: null.IntFrom(schedLes.ID)}, wantErr: true},
		{name: "unknown lesson binding", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: "CA1", Score: "70", LessonID: null.IntFrom(pastLes.ID + 99)}, wantErr: true},
		{name: "no binding", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: "CA1", Score: "70.5"}},
		{name: "past lesson binding", payload: scorelog.NewScoreLog{StudentID: stu.ID, Label: "CA2", Score: "82", LessonID: null.IntFrom(pastLes.ID)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := svc.Add(ctx, tt.payload)
			if tt.wantErr {
				var vErr *core.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("Add() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() failed: %v", err)
			}
			if log.ID == 0 {
				t.Error("Add() did not assign an ID")
			}
			if log.RecordedAt.IsZero() {
				t.Error("Add() did not stamp RecordedAt")
			}
		})
	}
}

func TestService_ByStudent_ordering(t *testing.T) {
	svc, scoreRepo, _, stu := setup(t)
	ctx := context.Background()

	base := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	testutil.CreateScoreLog(t, scoreRepo, stu.ID, "CA2", "70", base.AddDate(0, 1, 0))
	testutil.CreateScoreLog(t, scoreRepo, stu.ID, "CA1", "50", base)
	testutil.CreateScoreLog(t, scoreRepo, stu.ID, "SA1", "60", base.AddDate(0, 2, 0))

	logs, err := svc.ByStudent(ctx, stu.ID)
	if err != nil {
		t.Fatalf("ByStudent() failed: %v", err)
	}

	wantLabels := []string{"CA1", "CA2", "SA1"}
	if len(logs) != len(wantLabels) {
		t.Fatalf("ByStudent() returned %d logs, want %d", len(logs), len(wantLabels))
	}
	for i, label := range wantLabels {
		if logs[i].Label != label {
			t.Errorf("logs[%d].Label = %s, want %s", i, logs[i].Label, label)
		}
	}
}

func TestService_Delete(t *testing.T) {
	svc, scoreRepo, _, stu := setup(t)
	ctx := context.Background()

	log := testutil.CreateScoreLog(t, scoreRepo, stu.ID, "CA1", "70", time.Now())

	if err := svc.Delete(ctx, log.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := svc.Delete(ctx, log.ID); err != scorelog.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, scorelog.ErrNotFound)
	}
}
