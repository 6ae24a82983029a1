package todo

import (
	"context"
	"errors"

	"github.com/trezcool/tutorsync/core"
)

var (
	// errors
	ErrNotFound        = errors.New("todo not found")
	ErrStudentNotFound = errors.New("student does not exist")
)

type (
	Repository interface {
		CreateTodo(ctx context.Context, td Todo, exec ...core.DBExecutor) (Todo, error)
		GetTodoByID(ctx context.Context, id int, exec ...core.DBExecutor) (Todo, error)
		QueryTodos(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]Todo, error)
		UpdateTodo(ctx context.Context, td Todo, exec ...core.DBExecutor) (Todo, error)
		DeleteTodosByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
		DeleteTodosByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error)
	}

	StudentChecker interface {
		StudentExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		repo     Repository
		students StudentChecker
		broker   *core.Broker
	}
)

// QueryFilter applies AND operation on available fields.
type QueryFilter struct {
	StudentID *int
	Pending   bool
	Urgency   string
}

func NewService(repo Repository, students StudentChecker, broker *core.Broker) *Service {
	return &Service{repo: repo, students: students, broker: broker}
}

func (svc *Service) Create(ctx context.Context, nt NewTodo) (Todo, error) {
	if err := nt.Validate(); err != nil {
		return Todo{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}
	if nt.StudentID.Valid {
		exists, err := svc.students.StudentExists(ctx, nt.StudentID.Int)
		if err != nil {
			return Todo{}, err
		}
		if !exists {
			return Todo{}, core.NewValidationError(
				ErrStudentNotFound,
				core.FieldError{Field: "student_id", Error: ErrStudentNotFound.Error()},
			)
		}
	}

	td := Todo{
		Title:     nt.Title,
		StudentID: nt.StudentID,
		DueDate:   nt.DueDate,
		Urgency:   nt.Urgency,
	}
	td, err := svc.repo.CreateTodo(ctx, td)
	if err != nil {
		return Todo{}, err
	}
	svc.broker.Publish(core.CollTodos)
	return td, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Todo, error) {
	return svc.repo.GetTodoByID(ctx, id)
}

// Pending returns all uncompleted todos.
func (svc *Service) Pending(ctx context.Context) ([]Todo, error) {
	return svc.repo.QueryTodos(ctx, &QueryFilter{Pending: true})
}

func (svc *Service) ByStudent(ctx context.Context, studentID int) ([]Todo, error) {
	return svc.repo.QueryTodos(ctx, &QueryFilter{StudentID: &studentID})
}

func (svc *Service) Update(ctx context.Context, id int, ut UpdateTodo) (Todo, error) {
	origTd, err := svc.repo.GetTodoByID(ctx, id)
	if err != nil {
		return Todo{}, err
	}
	if err = ut.Validate(origTd); err != nil {
		return Todo{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}

	td := Todo{
		ID:          id,
		Title:       ut.Title,
		StudentID:   origTd.StudentID,
		IsCompleted: *ut.IsCompleted,
		DueDate:     ut.DueDate,
		Urgency:     ut.Urgency,
	}
	td, err = svc.repo.UpdateTodo(ctx, td)
	if err != nil {
		return Todo{}, err
	}
	svc.broker.Publish(core.CollTodos)
	return td, nil
}

// Complete flags the todo done.
func (svc *Service) Complete(ctx context.Context, id int) (Todo, error) {
	done := true
	return svc.Update(ctx, id, UpdateTodo{IsCompleted: &done})
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	cnt, err := svc.repo.DeleteTodosByID(ctx, ids)
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	svc.broker.Publish(core.CollTodos)
	return nil
}
