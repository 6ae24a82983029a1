package scorelog

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/tutorsync/core"
)

var (
	// errors
	ErrNotFound        = errors.New("score log not found")
	ErrStudentNotFound = errors.New("student does not exist")
	ErrLessonNotFound  = errors.New("lesson does not exist for this student")
)

type (
	Repository interface {
		CreateScoreLog(ctx context.Context, log ScoreLog, exec ...core.DBExecutor) (ScoreLog, error)
		// QueryScoreLogsByStudent returns logs in chronological order:
		// recorded_at ascending, insertion order breaking ties.
		QueryScoreLogsByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]ScoreLog, error)
		DeleteScoreLogsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
		DeleteScoreLogsByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error)
	}

	StudentChecker interface {
		StudentExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
	}

	// PastLessonChecker verifies a lesson binding: the lesson must exist,
	// belong to the student and already be past.
	PastLessonChecker interface {
		PastLessonExists(ctx context.Context, id, studentID int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		repo     Repository
		students StudentChecker
		lessons  PastLessonChecker
		broker   *core.Broker
	}
)

func NewService(repo Repository, students StudentChecker, lessons PastLessonChecker, broker *core.Broker) *Service {
	return &Service{repo: repo, students: students, lessons: lessons, broker: broker}
}

func (svc *Service) Add(ctx context.Context, nsl NewScoreLog) (ScoreLog, error) {
	if err := nsl.Validate(); err != nil {
		return ScoreLog{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}

	exists, err := svc.students.StudentExists(ctx, nsl.StudentID)
	if err != nil {
		return ScoreLog{}, err
	}
	if !exists {
		return ScoreLog{}, core.NewValidationError(
			ErrStudentNotFound,
			core.FieldError{Field: "student_id", Error: ErrStudentNotFound.Error()},
		)
	}

	if nsl.LessonID.Valid {
		exists, err = svc.lessons.PastLessonExists(ctx, nsl.LessonID.Int, nsl.StudentID)
		if err != nil {
			return ScoreLog{}, err
		}
		if !exists {
			return ScoreLog{}, core.NewValidationError(
				ErrLessonNotFound,
				core.FieldError{Field: "lesson_id", Error: ErrLessonNotFound.Error()},
			)
		}
	}

	log := ScoreLog{
		StudentID:  nsl.StudentID,
		LessonID:   nsl.LessonID,
		Label:      nsl.Label,
		Score:      nsl.Score,
		RecordedAt: time.Now().UTC(),
	}
	log, err = svc.repo.CreateScoreLog(ctx, log)
	if err != nil {
		return ScoreLog{}, err
	}
	svc.broker.Publish(core.CollScoreLogs)
	return log, nil
}

func (svc *Service) ByStudent(ctx context.Context, studentID int) ([]ScoreLog, error) {
	return svc.repo.QueryScoreLogsByStudent(ctx, studentID)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	cnt, err := svc.repo.DeleteScoreLogsByID(ctx, ids)
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	svc.broker.Publish(core.CollScoreLogs)
	return nil
}
