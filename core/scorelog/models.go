package scorelog

import (
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
)

// ScoreLog is one (label, score) test observation for a student, optionally
// bound to the past lesson it was recorded in. Scores are kept as text;
// see ParsedScore.
type ScoreLog struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	LessonID   null.Int  `json:"lesson_id"`
	Label      string    `json:"label"`
	Score      string    `json:"score"`
	RecordedAt time.Time `json:"recorded_at"` // UTC
}

// ParsedScore returns the numeric score and whether it is usable for
// charting: a finite number in [0, 100].
func (sl ScoreLog) ParsedScore() (float64, bool) {
	score, err := strconv.ParseFloat(strings.TrimSpace(sl.Score), 64)
	if err != nil || !(score >= 0 && score <= 100) { // also rejects NaN
		return 0, false
	}
	return score, true
}

// NewScoreLog contains information needed to record a new ScoreLog.
type NewScoreLog struct {
	StudentID int      `json:"student_id" validate:"required"`
	LessonID  null.Int `json:"lesson_id"`
	Label     string   `json:"label" validate:"required,notblank"`
	Score     string   `json:"score" validate:"required,score"`
}

func (nsl *NewScoreLog) Validate() error {
	nsl.Label = core.CleanString(nsl.Label)
	nsl.Score = core.CleanString(nsl.Score)
	return core.Validate.Struct(nsl)
}
