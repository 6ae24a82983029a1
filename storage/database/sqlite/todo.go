package sqliterepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/todo"
)

type todoRepository struct {
	exec core.DBExecutor
}

var _ todo.Repository = (*todoRepository)(nil) // interface compliance check

func NewTodoRepository(exec core.DBExecutor) *todoRepository {
	return &todoRepository{exec: exec}
}

func (repo todoRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type dbTodo struct {
	ID          int         `db:"id"`
	Title       string      `db:"title"`
	StudentID   null.Int    `db:"student_id"`
	IsCompleted bool        `db:"is_completed"`
	DueDate     null.String `db:"due_date"`
	Urgency     string      `db:"urgency"`
}

func (repo todoRepository) pack(td todo.Todo) dbTodo {
	return dbTodo{
		ID:          td.ID,
		Title:       td.Title,
		StudentID:   td.StudentID,
		IsCompleted: td.IsCompleted,
		DueDate:     formatNullTime(td.DueDate),
		Urgency:     td.Urgency,
	}
}

func (repo todoRepository) unpack(row dbTodo) (todo.Todo, error) {
	dueDate, err := parseNullTime(row.DueDate)
	if err != nil {
		return todo.Todo{}, err
	}
	return todo.Todo{
		ID:          row.ID,
		Title:       row.Title,
		StudentID:   row.StudentID,
		IsCompleted: row.IsCompleted,
		DueDate:     dueDate,
		Urgency:     row.Urgency,
	}, nil
}

// trapNoRowsErr maps "no rows" err to todo.ErrNotFound
func (repo todoRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return todo.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo todoRepository) CreateTodo(ctx context.Context, td todo.Todo, exec ...core.DBExecutor) (todo.Todo, error) {
	row := repo.pack(td)
	res, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO todos (title, student_id, is_completed, due_date, urgency)
		VALUES (?, ?, ?, ?, ?)`,
		row.Title, row.StudentID, row.IsCompleted, row.DueDate, row.Urgency,
	)
	if err != nil {
		return todo.Todo{}, errors.Wrap(err, "inserting todo")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return todo.Todo{}, errors.Wrap(err, "getting inserted todo id")
	}
	td.ID = int(id)
	return td, nil
}

func (repo todoRepository) GetTodoByID(ctx context.Context, id int, exec ...core.DBExecutor) (todo.Todo, error) {
	var row dbTodo
	err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM todos WHERE id = ?`, id)
	if err != nil {
		return todo.Todo{}, repo.trapNoRowsErr(err, "finding todo by ID")
	}
	return repo.unpack(row)
}

func (repo todoRepository) QueryTodos(ctx context.Context, filter *todo.QueryFilter, exec ...core.DBExecutor) ([]todo.Todo, error) {
	query := "SELECT * FROM todos"
	var where []string
	var args []interface{}

	if filter != nil {
		if filter.StudentID != nil {
			where = append(where, "student_id = ?")
			args = append(args, *filter.StudentID)
		}
		if filter.Pending {
			where = append(where, "is_completed = ?")
			args = append(args, false)
		}
		if filter.Urgency != "" {
			where = append(where, "urgency = ?")
			args = append(args, filter.Urgency)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	var rows []dbTodo
	if err := repo.getExec(exec).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying todos")
	}

	todos := make([]todo.Todo, 0, len(rows))
	for _, row := range rows {
		td, err := repo.unpack(row)
		if err != nil {
			return nil, err
		}
		todos = append(todos, td)
	}
	return todos, nil
}

func (repo todoRepository) UpdateTodo(ctx context.Context, td todo.Todo, exec ...core.DBExecutor) (todo.Todo, error) {
	row := repo.pack(td)
	res, err := repo.getExec(exec).ExecContext(ctx, `
		UPDATE todos
		SET title = ?, student_id = ?, is_completed = ?, due_date = ?, urgency = ?
		WHERE id = ?`,
		row.Title, row.StudentID, row.IsCompleted, row.DueDate, row.Urgency, row.ID,
	)
	if err != nil {
		return todo.Todo{}, errors.Wrap(err, "updating todo")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return todo.Todo{}, errors.Wrap(err, "updating todo")
	}
	if cnt == 0 {
		return todo.Todo{}, todo.ErrNotFound
	}
	return td, nil
}

func (repo todoRepository) DeleteTodosByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	query, args, err := sqlx.In(`DELETE FROM todos WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting todos")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting todos")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting todos")
	}
	return int(cnt), nil
}

func (repo todoRepository) DeleteTodosByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error) {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM todos WHERE student_id = ?`, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting student todos")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting student todos")
	}
	return int(cnt), nil
}
