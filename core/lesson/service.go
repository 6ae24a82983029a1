package lesson

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
)

var (
	// errors
	ErrNotFound        = errors.New("lesson not found")
	ErrStudentNotFound = errors.New("student does not exist")
	ErrNotScheduled    = errors.New("only a scheduled lesson can be completed")
)

type (
	Repository interface {
		CreateLesson(ctx context.Context, les Lesson, exec ...core.DBExecutor) (Lesson, error)
		GetLessonByID(ctx context.Context, id int, exec ...core.DBExecutor) (Lesson, error)
		QueryLessons(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Lesson, error)
		CountLessons(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) (int, error)
		UpdateLesson(ctx context.Context, les Lesson, exec ...core.DBExecutor) (Lesson, error)
		DeleteLessonsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
		DeleteLessonsByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error)
	}

	// StudentChecker guards the studentId reference at creation time; the
	// store itself has no foreign keys.
	StudentChecker interface {
		StudentExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		students StudentChecker
		broker   *core.Broker
	}
)

func NewService(db core.DB, repo Repository, students StudentChecker, broker *core.Broker) *Service {
	return &Service{db: db, repo: repo, students: students, broker: broker}
}

func (svc *Service) checkStudent(ctx context.Context, studentID int) error {
	exists, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return err
	}
	if !exists {
		return core.NewValidationError(
			ErrStudentNotFound,
			core.FieldError{Field: "student_id", Error: ErrStudentNotFound.Error()},
		)
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nl NewLesson) (Lesson, error) {
	if err := nl.Validate(); err != nil {
		return Lesson{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}
	if err := svc.checkStudent(ctx, nl.StudentID); err != nil {
		return Lesson{}, err
	}

	les := Lesson{
		StudentID:     nl.StudentID,
		Date:          nl.Date,
		Status:        StatusScheduled,
		PaymentStatus: nl.PaymentStatus,
		TopicsForNext: null.NewString(nl.TopicsForNext, nl.TopicsForNext != ""),
		DurationHours: nl.DurationHours,
	}
	les, err := svc.repo.CreateLesson(ctx, les)
	if err != nil {
		return Lesson{}, err
	}
	svc.broker.Publish(core.CollLessons)
	return les, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

// Scheduled returns all scheduled lessons, soonest first.
func (svc *Service) Scheduled(ctx context.Context) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx,
		&QueryFilter{Status: StatusScheduled},
		[]core.DBOrdering{{Field: "date", Ascending: true}},
	)
}

// Past returns completed lessons, most recent first.
func (svc *Service) Past(ctx context.Context, limit int) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx,
		&QueryFilter{Status: StatusPast, Limit: limit},
		[]core.DBOrdering{{Field: "date", Ascending: false}},
	)
}

func (svc *Service) ByStudent(ctx context.Context, studentID int) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx,
		&QueryFilter{StudentID: studentID},
		[]core.DBOrdering{{Field: "date", Ascending: true}},
	)
}

func (svc *Service) Update(ctx context.Context, id int, ul UpdateLesson) (Lesson, error) {
	origLes, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if err = ul.Validate(origLes); err != nil {
		return Lesson{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}
	if *ul.StudentID != origLes.StudentID {
		if err = svc.checkStudent(ctx, *ul.StudentID); err != nil {
			return Lesson{}, err
		}
	}

	les := Lesson{
		ID:            id,
		StudentID:     *ul.StudentID,
		Date:          ul.Date,
		Status:        origLes.Status,
		PaymentStatus: ul.PaymentStatus,
		TopicsCovered: null.NewString(ul.TopicsCovered, ul.TopicsCovered != ""),
		TopicsForNext: null.NewString(ul.TopicsForNext, ul.TopicsForNext != ""),
		DurationHours: *ul.DurationHours,
	}
	les, err = svc.repo.UpdateLesson(ctx, les)
	if err != nil {
		return Lesson{}, err
	}
	svc.broker.Publish(core.CollLessons)
	return les, nil
}

// Complete flips a scheduled lesson to past and books the follow-up lesson
// exactly 7 days after the original date, same student and duration, payment
// unpaid, next-topics cleared. Both writes commit together or not at all.
func (svc *Service) Complete(ctx context.Context, id int) (completed, followUp Lesson, err error) {
	err = core.RunInTx(ctx, svc.db, func(tx core.DBTransactor) error {
		les, err := svc.repo.GetLessonByID(ctx, id, tx)
		if err != nil {
			return err
		}
		if !les.IsScheduled() {
			return ErrNotScheduled
		}

		les.Status = StatusPast
		if completed, err = svc.repo.UpdateLesson(ctx, les, tx); err != nil {
			return err
		}

		followUp, err = svc.repo.CreateLesson(ctx, Lesson{
			StudentID:     les.StudentID,
			Date:          les.Date.AddDate(0, 0, 7),
			Status:        StatusScheduled,
			PaymentStatus: PaymentUnpaid,
			DurationHours: les.DurationHours,
		}, tx)
		return err
	})
	if err != nil {
		return Lesson{}, Lesson{}, err
	}
	svc.broker.Publish(core.CollLessons)
	return completed, followUp, nil
}

// MarkPaid sets the lesson's payment status to paid; no side effects.
func (svc *Service) MarkPaid(ctx context.Context, id int) (Lesson, error) {
	les, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	les.PaymentStatus = PaymentPaid
	les, err = svc.repo.UpdateLesson(ctx, les)
	if err != nil {
		return Lesson{}, err
	}
	svc.broker.Publish(core.CollLessons)
	return les, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	cnt, err := svc.repo.DeleteLessonsByID(ctx, ids)
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	svc.broker.Publish(core.CollLessons)
	return nil
}
