package sqliterepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
)

type lessonRepository struct {
	exec core.DBExecutor
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(exec core.DBExecutor) *lessonRepository {
	return &lessonRepository{exec: exec}
}

func (repo lessonRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type dbLesson struct {
	ID            int         `db:"id"`
	StudentID     int         `db:"student_id"`
	Date          string      `db:"date"`
	Status        string      `db:"status"`
	PaymentStatus string      `db:"payment_status"`
	TopicsCovered null.String `db:"topics_covered"`
	TopicsForNext null.String `db:"topics_for_next"`
	DurationHours float64     `db:"duration_hours"`
}

func (repo lessonRepository) pack(les lesson.Lesson) dbLesson {
	return dbLesson{
		ID:            les.ID,
		StudentID:     les.StudentID,
		Date:          formatTime(les.Date),
		Status:        les.Status,
		PaymentStatus: les.PaymentStatus,
		TopicsCovered: les.TopicsCovered,
		TopicsForNext: les.TopicsForNext,
		DurationHours: les.DurationHours,
	}
}

func (repo lessonRepository) unpack(row dbLesson) (lesson.Lesson, error) {
	date, err := parseTime(row.Date)
	if err != nil {
		return lesson.Lesson{}, err
	}
	return lesson.Lesson{
		ID:            row.ID,
		StudentID:     row.StudentID,
		Date:          date.Local(),
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		TopicsCovered: row.TopicsCovered,
		TopicsForNext: row.TopicsForNext,
		DurationHours: row.DurationHours,
	}, nil
}

func (repo lessonRepository) unpackSlice(rows []dbLesson) ([]lesson.Lesson, error) {
	lessons := make([]lesson.Lesson, 0, len(rows))
	for _, row := range rows {
		les, err := repo.unpack(row)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, les)
	}
	return lessons, nil
}

// trapNoRowsErr maps "no rows" err to lesson.ErrNotFound
func (repo lessonRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return lesson.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// filterClauses translates a QueryFilter into WHERE clauses. Date bounds are
// inclusive on both ends; the date index carries the range scans.
func (repo lessonRepository) filterClauses(filter *lesson.QueryFilter) (where []string, args []interface{}, limit int) {
	if filter.IsEmpty() {
		return nil, nil, 0
	}
	if filter.StudentID != 0 {
		where = append(where, "student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if len(filter.PaymentStatuses) > 0 {
		where = append(where, fmt.Sprintf("payment_status IN (?%s)", strings.Repeat(", ?", len(filter.PaymentStatuses)-1)))
		for _, status := range filter.PaymentStatuses {
			args = append(args, status)
		}
	}
	if !filter.DateFrom.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, formatTime(filter.DateFrom))
	}
	if !filter.DateTo.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, formatTime(filter.DateTo))
	}
	return where, args, filter.Limit
}

func (repo lessonRepository) CreateLesson(ctx context.Context, les lesson.Lesson, exec ...core.DBExecutor) (lesson.Lesson, error) {
	row := repo.pack(les)
	res, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO lessons (student_id, date, status, payment_status, topics_covered, topics_for_next, duration_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.StudentID, row.Date, row.Status, row.PaymentStatus,
		row.TopicsCovered, row.TopicsForNext, row.DurationHours,
	)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "getting inserted lesson id")
	}
	les.ID = int(id)
	return les, nil
}

func (repo lessonRepository) GetLessonByID(ctx context.Context, id int, exec ...core.DBExecutor) (lesson.Lesson, error) {
	var row dbLesson
	err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM lessons WHERE id = ?`, id)
	if err != nil {
		return lesson.Lesson{}, repo.trapNoRowsErr(err, "finding lesson by ID")
	}
	return repo.unpack(row)
}

func (repo lessonRepository) QueryLessons(ctx context.Context, filter *lesson.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]lesson.Lesson, error) {
	query := "SELECT * FROM lessons"
	var args []interface{}
	var limit int

	if !filter.IsEmpty() {
		where, whereArgs, lim := repo.filterClauses(filter)
		if len(where) > 0 {
			query += " WHERE " + strings.Join(where, " AND ")
			args = whereArgs
		}
		limit = lim
	}

	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		query += " ORDER BY id"
	}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []dbLesson
	if err := repo.getExec(exec).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	return repo.unpackSlice(rows)
}

func (repo lessonRepository) CountLessons(ctx context.Context, filter *lesson.QueryFilter, exec ...core.DBExecutor) (int, error) {
	query := "SELECT COUNT(*) FROM lessons"
	var args []interface{}

	if !filter.IsEmpty() {
		where, whereArgs, _ := repo.filterClauses(filter)
		if len(where) > 0 {
			query += " WHERE " + strings.Join(where, " AND ")
			args = whereArgs
		}
	}

	var cnt int
	if err := repo.getExec(exec).GetContext(ctx, &cnt, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting lessons")
	}
	return cnt, nil
}

// PastLessonExists satisfies the score log service's lesson binding check.
func (repo lessonRepository) PastLessonExists(ctx context.Context, id, studentID int, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := repo.getExec(exec).GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM lessons WHERE id = ? AND student_id = ? AND status = ?)`,
		id, studentID, lesson.StatusPast,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking lesson existence")
	}
	return exists, nil
}

func (repo lessonRepository) UpdateLesson(ctx context.Context, les lesson.Lesson, exec ...core.DBExecutor) (lesson.Lesson, error) {
	row := repo.pack(les)
	res, err := repo.getExec(exec).ExecContext(ctx, `
		UPDATE lessons
		SET student_id = ?, date = ?, status = ?, payment_status = ?, topics_covered = ?, topics_for_next = ?, duration_hours = ?
		WHERE id = ?`,
		row.StudentID, row.Date, row.Status, row.PaymentStatus,
		row.TopicsCovered, row.TopicsForNext, row.DurationHours, row.ID,
	)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if cnt == 0 {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	return les, nil
}

func (repo lessonRepository) DeleteLessonsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	query, args, err := sqlx.In(`DELETE FROM lessons WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting lessons")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting lessons")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting lessons")
	}
	return int(cnt), nil
}

func (repo lessonRepository) DeleteLessonsByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error) {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM lessons WHERE student_id = ?`, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting student lessons")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting student lessons")
	}
	return int(cnt), nil
}
