package lesson_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/student"
	sqliterepos "github.com/trezcool/tutorsync/storage/database/sqlite"
	testutil "github.com/trezcool/tutorsync/tests"
)

func setup(t *testing.T) (*lesson.Service, lesson.Repository, student.Student) {
	db := testutil.PrepareDB(t)
	stuRepo := sqliterepos.NewStudentRepository(db)
	lesRepo := sqliterepos.NewLessonRepository(db)

	svc := lesson.NewService(db, lesRepo, stuRepo, core.NewBroker())
	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)
	return svc, lesRepo, stu
}

func TestService_Create(t *testing.T) {
	svc, _, stu := setup(t)
	ctx := context.Background()
	date := time.Date(2026, time.September, 1, 16, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		payload lesson.NewLesson
		wantErr bool
	}{
		{name: "missing student", payload: lesson.NewLesson{Date: date, DurationHours: 1}, wantErr: true},
		{name: "unknown student", payload: lesson.NewLesson{StudentID: stu.ID + 99, Date: date, DurationHours: 1}, wantErr: true},
		{name: "zero duration", payload: lesson.NewLesson{StudentID: stu.ID, Date: date}, wantErr: true},
		{name: "bad payment status", payload: lesson.NewLesson{StudentID: stu.ID, Date: date, DurationHours: 1, PaymentStatus: "iou"}, wantErr: true},
		{name: "ok", payload: lesson.NewLesson{StudentID: stu.ID, Date: date, DurationHours: 1.5, TopicsForNext: "Integration"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			les, err := svc.Create(ctx, tt.payload)
			if tt.wantErr {
				var vErr *core.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("Create() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if les.Status != lesson.StatusScheduled {
				t.Errorf("Status = %s, want %s", les.Status, lesson.StatusScheduled)
			}
			if les.PaymentStatus != lesson.PaymentUnpaid {
				t.Errorf("PaymentStatus = %s, want %s (default)", les.PaymentStatus, lesson.PaymentUnpaid)
			}

			got, err := svc.GetByID(ctx, les.ID)
			if err != nil {
				t.Fatalf("GetByID() failed: %v", err)
			}
			if !got.Date.Equal(date) {
				t.Errorf("Date = %v, want %v", got.Date, date)
			}
		})
	}
}

func TestService_Complete(t *testing.T) {
	svc, lesRepo, stu := setup(t)
	ctx := context.Background()

	date := time.Date(2026, time.September, 1, 16, 0, 0, 0, time.Local)
	les := testutil.CreateLesson(t, lesRepo, stu.ID, date, 2, lesson.StatusScheduled, lesson.PaymentPending)

	before, err := lesRepo.CountLessons(ctx, nil)
	if err != nil {
		t.Fatalf("CountLessons() failed: %v", err)
	}

	completed, followUp, err := svc.Complete(ctx, les.ID)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if completed.ID != les.ID || completed.Status != lesson.StatusPast {
		t.Errorf("completed = #%d %s, want #%d %s", completed.ID, completed.Status, les.ID, lesson.StatusPast)
	}
	if completed.PaymentStatus != lesson.PaymentPending {
		t.Errorf("completion changed payment status to %s", completed.PaymentStatus)
	}

	wantDate := date.AddDate(0, 0, 7)
	if !followUp.Date.Equal(wantDate) {
		t.Errorf("follow-up date = %v, want %v", followUp.Date, wantDate)
	}
	if followUp.StudentID != stu.ID || followUp.DurationHours != 2 {
		t.Errorf("follow-up = %+v, want same student and duration", followUp)
	}
	if followUp.Status != lesson.StatusScheduled || followUp.PaymentStatus != lesson.PaymentUnpaid {
		t.Errorf("follow-up = %s/%s, want scheduled/unpaid", followUp.Status, followUp.PaymentStatus)
	}
	if followUp.TopicsForNext.Valid {
		t.Errorf("follow-up topics = %q, want empty", followUp.TopicsForNext.String)
	}

	after, err := lesRepo.CountLessons(ctx, nil)
	if err != nil {
		t.Fatalf("CountLessons() failed: %v", err)
	}
	if after != before+1 {
		t.Errorf("lesson count = %d, want %d", after, before+1)
	}

	// a past lesson cannot complete again
	if _, _, err = svc.Complete(ctx, les.ID); err != lesson.ErrNotScheduled {
		t.Errorf("Complete() error = %v, want %v", err, lesson.ErrNotScheduled)
	}
	if _, _, err = svc.Complete(ctx, les.ID+999); err != lesson.ErrNotFound {
		t.Errorf("Complete() error = %v, want %v", err, lesson.ErrNotFound)
	}
}

func TestService_MarkPaid(t *testing.T) {
	svc, lesRepo, stu := setup(t)
	ctx := context.Background()

	les := testutil.CreateLesson(t, lesRepo, stu.ID, time.Now(), 1, lesson.StatusPast, lesson.PaymentUnpaid)

	got, err := svc.MarkPaid(ctx, les.ID)
	if err != nil {
		t.Fatalf("MarkPaid() failed: %v", err)
	}
	if got.PaymentStatus != lesson.PaymentPaid {
		t.Errorf("PaymentStatus = %s, want %s", got.PaymentStatus, lesson.PaymentPaid)
	}

	if _, err = svc.MarkPaid(ctx, les.ID+99); err != lesson.ErrNotFound {
		t.Errorf("MarkPaid() error = %v, want %v", err, lesson.ErrNotFound)
	}
}

func TestService_Update_partial(t *testing.T) {
	svc, lesRepo, stu := setup(t)
	ctx := context.Background()

	date := time.Date(2026, time.September, 1, 16, 0, 0, 0, time.Local)
	les := testutil.CreateLesson(t, lesRepo, stu.ID, date, 2, lesson.StatusScheduled, lesson.PaymentUnpaid)

	got, err := svc.Update(ctx, les.ID, lesson.UpdateLesson{TopicsCovered: "Quadratics"})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if !got.TopicsCovered.Valid || got.TopicsCovered.String != "Quadratics" {
		t.Errorf("TopicsCovered = %+v, want Quadratics", got.TopicsCovered)
	}
	if !got.Date.Equal(date) || got.DurationHours != 2 || got.PaymentStatus != lesson.PaymentUnpaid {
		t.Errorf("Update() changed untouched fields: %+v", got)
	}
}

func TestService_Delete(t *testing.T) {
	svc, lesRepo, stu := setup(t)
	ctx := context.Background()

	les := testutil.CreateLesson(t, lesRepo, stu.ID, time.Now(), 1, lesson.StatusScheduled, lesson.PaymentUnpaid)

	if err := svc.Delete(ctx, les.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, les.ID); err != lesson.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, lesson.ErrNotFound)
	}
	if err := svc.Delete(ctx, les.ID); err != lesson.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, lesson.ErrNotFound)
	}
}
