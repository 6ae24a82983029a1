package report

import (
	"context"
	"math"
	"time"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/scorelog"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
)

// upcomingLimit caps the dashboard's upcoming schedule.
const upcomingLimit = 5

// Service is the read side: pure queries and derived aggregates over the
// store, re-evaluated by consumers whenever a write lands (see Watch).
type Service struct {
	students student.Repository
	lessons  lesson.Repository
	scores   scorelog.Repository
	todos    todo.Repository
	broker   *core.Broker
}

func NewService(
	students student.Repository,
	lessons lesson.Repository,
	scores scorelog.Repository,
	todos todo.Repository,
	broker *core.Broker,
) *Service {
	return &Service{
		students: students,
		lessons:  lessons,
		scores:   scores,
		todos:    todos,
		broker:   broker,
	}
}

// startOfWeek is the most recent Sunday at local midnight.
func startOfWeek(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(now.Weekday()))
}

// endOfWeek is startOfWeek + 6 days at 23:59:59.999 local; the week window is
// inclusive at millisecond precision.
func endOfWeek(start time.Time) time.Time {
	sat := start.AddDate(0, 0, 6)
	return time.Date(sat.Year(), sat.Month(), sat.Day(), 23, 59, 59, 999e6, sat.Location())
}

// WeekLessonCount counts lessons dated within the current week, Sunday
// 00:00:00.000 through Saturday 23:59:59.999.
func (svc *Service) WeekLessonCount(ctx context.Context, now time.Time) (int, error) {
	start := startOfWeek(now)
	return svc.lessons.CountLessons(ctx, &lesson.QueryFilter{
		DateFrom: start,
		DateTo:   endOfWeek(start),
	})
}

func (svc *Service) joinStudent(ctx context.Context, studentID int) (*student.Student, error) {
	stu, err := svc.students.GetStudentByID(ctx, studentID)
	if err == student.ErrNotFound {
		return nil, nil // dangling reference; tolerated
	}
	if err != nil {
		return nil, err
	}
	return &stu, nil
}

func (svc *Service) joinLessons(ctx context.Context, lessons []lesson.Lesson) ([]ScheduledLesson, error) {
	joined := make([]ScheduledLesson, 0, len(lessons))
	for _, les := range lessons {
		stu, err := svc.joinStudent(ctx, les.StudentID)
		if err != nil {
			return nil, err
		}
		joined = append(joined, ScheduledLesson{Lesson: les, Student: stu})
	}
	return joined, nil
}

// UpcomingSchedule returns the next scheduled lessons from today's local
// midnight on, soonest first, capped at 5.
func (svc *Service) UpcomingSchedule(ctx context.Context, now time.Time) ([]ScheduledLesson, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lessons, err := svc.lessons.QueryLessons(ctx,
		&lesson.QueryFilter{Status: lesson.StatusScheduled, DateFrom: today, Limit: upcomingLimit},
		[]core.DBOrdering{{Field: "date", Ascending: true}},
	)
	if err != nil {
		return nil, err
	}
	return svc.joinLessons(ctx, lessons)
}

// ScheduledLessons returns every scheduled lesson, soonest first, joined for
// the schedule screen.
func (svc *Service) ScheduledLessons(ctx context.Context) ([]ScheduledLesson, error) {
	lessons, err := svc.lessons.QueryLessons(ctx,
		&lesson.QueryFilter{Status: lesson.StatusScheduled},
		[]core.DBOrdering{{Field: "date", Ascending: true}},
	)
	if err != nil {
		return nil, err
	}
	return svc.joinLessons(ctx, lessons)
}

// RecentPastLessons returns the latest completed lessons, most recent first.
func (svc *Service) RecentPastLessons(ctx context.Context, limit int) ([]ScheduledLesson, error) {
	lessons, err := svc.lessons.QueryLessons(ctx,
		&lesson.QueryFilter{Status: lesson.StatusPast, Limit: limit},
		[]core.DBOrdering{{Field: "date", Ascending: false}},
	)
	if err != nil {
		return nil, err
	}
	return svc.joinLessons(ctx, lessons)
}

// StudentScoreTrend flattens one student's score logs in chronological order
// and derives the average and direction. Unparsable or out-of-range scores
// are skipped, never fatal. No scores means average 0 and a flat trend.
func (svc *Service) StudentScoreTrend(ctx context.Context, studentID int) (ScoreTrend, error) {
	logs, err := svc.scores.QueryScoreLogsByStudent(ctx, studentID)
	if err != nil {
		return ScoreTrend{}, err
	}

	trend := ScoreTrend{Points: make([]TrendPoint, 0, len(logs)), Direction: TrendFlat}
	var sum float64
	for _, log := range logs {
		score, ok := log.ParsedScore()
		if !ok {
			continue
		}
		trend.Points = append(trend.Points, TrendPoint{
			Label:      log.Label,
			Score:      score,
			RecordedAt: log.RecordedAt,
		})
		sum += score
	}

	if n := len(trend.Points); n > 0 {
		trend.Average = sum / float64(n)

		first, last := trend.Points[0].Score, trend.Points[n-1].Score
		switch {
		case last > first:
			trend.Direction = TrendUp
		case last < first:
			trend.Direction = TrendDown
		}
	}
	return trend, nil
}

// Billing summarizes all lessons, most recent first: outstanding total over
// unpaid and pending lessons of any date, and revenue over paid lessons dated
// in the current local calendar month.
func (svc *Service) Billing(ctx context.Context, now time.Time) (BillingSummary, error) {
	lessons, err := svc.lessons.QueryLessons(ctx, nil,
		[]core.DBOrdering{{Field: "date", Ascending: false}},
	)
	if err != nil {
		return BillingSummary{}, err
	}

	sum := BillingSummary{Rows: make([]BillingRow, 0, len(lessons))}
	for _, les := range lessons {
		stu, err := svc.joinStudent(ctx, les.StudentID)
		if err != nil {
			return BillingSummary{}, err
		}

		var cost float64
		if stu != nil {
			cost = round2(stu.HourlyRate * les.DurationHours)
		}
		sum.Rows = append(sum.Rows, BillingRow{Lesson: les, Student: stu, Cost: cost})

		date := les.Date.In(now.Location())
		switch les.PaymentStatus {
		case lesson.PaymentUnpaid, lesson.PaymentPending:
			sum.Outstanding += cost
		case lesson.PaymentPaid:
			if date.Month() == now.Month() && date.Year() == now.Year() {
				sum.MonthRevenue += cost
			}
		}
	}
	sum.Outstanding = round2(sum.Outstanding)
	sum.MonthRevenue = round2(sum.MonthRevenue)
	return sum, nil
}

// Overview is the dashboard: headline metrics, the upcoming schedule and
// pending tasks.
func (svc *Service) Overview(ctx context.Context, now time.Time) (Overview, error) {
	var ov Overview
	var err error

	if ov.StudentCount, err = svc.students.CountStudents(ctx); err != nil {
		return Overview{}, err
	}
	if ov.LessonsThisWeek, err = svc.WeekLessonCount(ctx, now); err != nil {
		return Overview{}, err
	}
	if ov.Upcoming, err = svc.UpcomingSchedule(ctx, now); err != nil {
		return Overview{}, err
	}
	if ov.PendingTodos, err = svc.todos.QueryTodos(ctx, &todo.QueryFilter{Pending: true}); err != nil {
		return Overview{}, err
	}
	return ov, nil
}

// Watch invokes onChange every time a write lands on any of the given
// collections (all of them when none are named), until ctx is done. The read
// side stays current by re-querying instead of caching.
func (svc *Service) Watch(ctx context.Context, onChange func(core.Event), collections ...string) {
	sub := svc.broker.Subscribe(collections...)
	defer svc.broker.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub.C:
			onChange(evt)
		}
	}
}

func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
