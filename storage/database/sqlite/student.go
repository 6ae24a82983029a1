package sqliterepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/student"
)

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (repo studentRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type dbStudent struct {
	ID            int         `db:"id"`
	Name          string      `db:"name"`
	ParentContact string      `db:"parent_contact"`
	Location      string      `db:"location"`
	Subject       string      `db:"subject"`
	Level         string      `db:"level"`
	ExamTopics    null.String `db:"exam_topics"`
	ExamDate      null.String `db:"exam_date"`
	HourlyRate    float64     `db:"hourly_rate"`
	CreatedAt     string      `db:"created_at"`
}

func (repo studentRepository) pack(stu student.Student) dbStudent {
	return dbStudent{
		ID:            stu.ID,
		Name:          stu.Name,
		ParentContact: stu.ParentContact,
		Location:      stu.Location,
		Subject:       stu.Subject,
		Level:         stu.Level,
		ExamTopics:    stu.ExamTopics,
		ExamDate:      formatNullTime(stu.ExamDate),
		HourlyRate:    stu.HourlyRate,
		CreatedAt:     formatTime(stu.CreatedAt),
	}
}

func (repo studentRepository) unpack(row dbStudent) (student.Student, error) {
	examDate, err := parseNullTime(row.ExamDate)
	if err != nil {
		return student.Student{}, err
	}
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return student.Student{}, err
	}
	return student.Student{
		ID:            row.ID,
		Name:          row.Name,
		ParentContact: row.ParentContact,
		Location:      row.Location,
		Subject:       row.Subject,
		Level:         row.Level,
		ExamTopics:    row.ExamTopics,
		ExamDate:      examDate,
		HourlyRate:    row.HourlyRate,
		CreatedAt:     createdAt,
	}, nil
}

func (repo studentRepository) unpackSlice(rows []dbStudent) ([]student.Student, error) {
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		stu, err := repo.unpack(row)
		if err != nil {
			return nil, err
		}
		students = append(students, stu)
	}
	return students, nil
}

// trapNoRowsErr maps "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	row := repo.pack(stu)
	res, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO students (name, parent_contact, location, subject, level, exam_topics, exam_date, hourly_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Name, row.ParentContact, row.Location, row.Subject, row.Level,
		row.ExamTopics, row.ExamDate, row.HourlyRate, row.CreatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting inserted student id")
	}
	stu.ID = int(id)
	return stu, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context, exec ...core.DBExecutor) ([]student.Student, error) {
	var rows []dbStudent
	err := repo.getExec(exec).SelectContext(ctx, &rows, `SELECT * FROM students ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return repo.unpackSlice(rows)
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error) {
	var row dbStudent
	err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM students WHERE id = ?`, id)
	if err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return repo.unpack(row)
}

func (repo studentRepository) CountStudents(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var cnt int
	err := repo.getExec(exec).GetContext(ctx, &cnt, `SELECT COUNT(*) FROM students`)
	if err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return cnt, nil
}

// StudentExists satisfies the reference checks of the lesson, score log and
// todo services.
func (repo studentRepository) StudentExists(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := repo.getExec(exec).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM students WHERE id = ?)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking student existence")
	}
	return exists, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	row := repo.pack(stu)
	res, err := repo.getExec(exec).ExecContext(ctx, `
		UPDATE students
		SET name = ?, parent_contact = ?, location = ?, subject = ?, level = ?, exam_topics = ?, exam_date = ?, hourly_rate = ?
		WHERE id = ?`,
		row.Name, row.ParentContact, row.Location, row.Subject, row.Level,
		row.ExamTopics, row.ExamDate, row.HourlyRate, row.ID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if cnt == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return stu, nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	query, args, err := sqlx.In(`DELETE FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	return int(cnt), nil
}
