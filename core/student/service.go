package student

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
)

var ErrNotFound = errors.New("student not found")

// searchMinRatio is the similarity ratio under which a near match
// is not considered a search hit.
const searchMinRatio = .75

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		QueryAllStudents(ctx context.Context, exec ...core.DBExecutor) ([]Student, error)
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (Student, error)
		CountStudents(ctx context.Context, exec ...core.DBExecutor) (int, error)
		UpdateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
	}

	// Dependent-record cascades. Referential integrity is enforced here, not
	// by the store: deleting a Student removes everything referencing it.
	LessonRemover interface {
		DeleteLessonsByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error)
	}
	ScoreLogRemover interface {
		DeleteScoreLogsByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error)
	}
	TodoRemover interface {
		DeleteTodosByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		lessons LessonRemover
		scores  ScoreLogRemover
		todos   TodoRemover
		broker  *core.Broker
	}
)

func NewService(
	db core.DB,
	repo Repository,
	lessons LessonRemover,
	scores ScoreLogRemover,
	todos TodoRemover,
	broker *core.Broker,
) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		lessons: lessons,
		scores:  scores,
		todos:   todos,
		broker:  broker,
	}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}

	stu := Student{
		Name:          ns.Name,
		ParentContact: ns.ParentContact,
		Location:      ns.Location,
		Subject:       ns.Subject,
		Level:         ns.Level,
		ExamTopics:    null.NewString(ns.ExamTopics, ns.ExamTopics != ""),
		ExamDate:      ns.ExamDate,
		HourlyRate:    ns.HourlyRate,
		CreatedAt:     time.Now().UTC(),
	}
	stu, err := svc.repo.CreateStudent(ctx, stu)
	if err != nil {
		return Student{}, err
	}
	svc.broker.Publish(core.CollStudents)
	return stu, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountStudents(ctx)
}

// Search matches students whose name or subject contains the keyword, plus
// near matches (typos) by similarity ratio; best matches first.
func (svc *Service) Search(ctx context.Context, keyword string) ([]Student, error) {
	keyword = core.CleanString(keyword, true /* lower */)
	if keyword == "" {
		return svc.repo.QueryAllStudents(ctx)
	}

	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, err
	}

	type match struct {
		stu   Student
		ratio float64
	}
	matches := make([]match, 0, len(students))
	for _, stu := range students {
		ratio := searchRatio(keyword, stu.Name)
		if r := searchRatio(keyword, stu.Subject); r > ratio {
			ratio = r
		}
		if ratio >= searchMinRatio {
			matches = append(matches, match{stu, ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	res := make([]Student, 0, len(matches))
	for _, m := range matches {
		res = append(res, m.stu)
	}
	return res, nil
}

func searchRatio(keyword, attr string) float64 {
	attr = strings.ToLower(attr)
	if strings.Contains(attr, keyword) {
		return 1
	}
	return difflib.NewMatcher(strings.Split(keyword, ""), strings.Split(attr, "")).QuickRatio()
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	origStu, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err = us.Validate(origStu); err != nil {
		return Student{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}

	stu := Student{
		ID:            id,
		Name:          us.Name,
		ParentContact: us.ParentContact,
		Location:      us.Location,
		Subject:       us.Subject,
		Level:         us.Level,
		ExamTopics:    null.NewString(us.ExamTopics, us.ExamTopics != ""),
		ExamDate:      us.ExamDate,
		HourlyRate:    origStu.HourlyRate,
		CreatedAt:     origStu.CreatedAt,
	}
	if us.HourlyRate != nil {
		stu.HourlyRate = *us.HourlyRate
	}

	stu, err = svc.repo.UpdateStudent(ctx, stu)
	if err != nil {
		return Student{}, err
	}
	svc.broker.Publish(core.CollStudents)
	return stu, nil
}

// Delete removes the student and cascades over every Lesson, ScoreLog and
// Todo referencing it, all-or-nothing.
func (svc *Service) Delete(ctx context.Context, id int) error {
	err := core.RunInTx(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.lessons.DeleteLessonsByStudentID(ctx, id, tx); err != nil {
			return err
		}
		if _, err := svc.scores.DeleteScoreLogsByStudentID(ctx, id, tx); err != nil {
			return err
		}
		if _, err := svc.todos.DeleteTodosByStudentID(ctx, id, tx); err != nil {
			return err
		}
		cnt, err := svc.repo.DeleteStudentsByID(ctx, []int{id}, tx)
		if err != nil {
			return err
		}
		if cnt == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	svc.broker.Publish(core.CollStudents, core.CollLessons, core.CollScoreLogs, core.CollTodos)
	return nil
}
