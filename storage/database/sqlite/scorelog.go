package sqliterepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/scorelog"
)

type scoreLogRepository struct {
	exec core.DBExecutor
}

var _ scorelog.Repository = (*scoreLogRepository)(nil) // interface compliance check

func NewScoreLogRepository(exec core.DBExecutor) *scoreLogRepository {
	return &scoreLogRepository{exec: exec}
}

func (repo scoreLogRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

type dbScoreLog struct {
	ID         int      `db:"id"`
	StudentID  int      `db:"student_id"`
	LessonID   null.Int `db:"lesson_id"`
	Label      string   `db:"label"`
	Score      string   `db:"score"`
	RecordedAt string   `db:"recorded_at"`
}

func (repo scoreLogRepository) unpack(row dbScoreLog) (scorelog.ScoreLog, error) {
	recordedAt, err := parseTime(row.RecordedAt)
	if err != nil {
		return scorelog.ScoreLog{}, err
	}
	return scorelog.ScoreLog{
		ID:         row.ID,
		StudentID:  row.StudentID,
		LessonID:   row.LessonID,
		Label:      row.Label,
		Score:      row.Score,
		RecordedAt: recordedAt,
	}, nil
}

func (repo scoreLogRepository) CreateScoreLog(ctx context.Context, log scorelog.ScoreLog, exec ...core.DBExecutor) (scorelog.ScoreLog, error) {
	res, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO score_logs (student_id, lesson_id, label, score, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		log.StudentID, log.LessonID, log.Label, log.Score, formatTime(log.RecordedAt),
	)
	if err != nil {
		return scorelog.ScoreLog{}, errors.Wrap(err, "inserting score log")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return scorelog.ScoreLog{}, errors.Wrap(err, "getting inserted score log id")
	}
	log.ID = int(id)
	return log, nil
}

func (repo scoreLogRepository) QueryScoreLogsByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]scorelog.ScoreLog, error) {
	var rows []dbScoreLog
	err := repo.getExec(exec).SelectContext(ctx, &rows, `
		SELECT * FROM score_logs WHERE student_id = ? ORDER BY recorded_at, id`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying score logs")
	}

	logs := make([]scorelog.ScoreLog, 0, len(rows))
	for _, row := range rows {
		log, err := repo.unpack(row)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func (repo scoreLogRepository) DeleteScoreLogsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	query, args, err := sqlx.In(`DELETE FROM score_logs WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting score logs")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting score logs")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting score logs")
	}
	return int(cnt), nil
}

func (repo scoreLogRepository) DeleteScoreLogsByStudentID(ctx context.Context, studentID int, exec ...core.DBExecutor) (int, error) {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM score_logs WHERE student_id = ?`, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting student score logs")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting student score logs")
	}
	return int(cnt), nil
}
