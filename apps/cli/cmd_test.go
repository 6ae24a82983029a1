package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/report"
	"github.com/trezcool/tutorsync/core/scorelog"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
	clipsvc "github.com/trezcool/tutorsync/services/clipboard"
	exportsvc "github.com/trezcool/tutorsync/services/export"
	sqliterepos "github.com/trezcool/tutorsync/storage/database/sqlite"
	testutil "github.com/trezcool/tutorsync/tests"
)

var (
	stuRepo  student.Repository
	lesRepo  lesson.Repository
	todoRepo todo.Repository
)

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	stuR := sqliterepos.NewStudentRepository(db)
	lesR := sqliterepos.NewLessonRepository(db)
	scoreR := sqliterepos.NewScoreLogRepository(db)
	todoR := sqliterepos.NewTodoRepository(db)
	stuRepo, lesRepo, todoRepo = stuR, lesR, todoR

	broker := core.NewBroker()

	conf := new(core.Config)
	conf.Export.Dir = t.TempDir()

	// start CLI
	return &commandLine{
		db:        db,
		stuSvc:    student.NewService(db, stuR, lesR, scoreR, todoR, broker),
		lesSvc:    lesson.NewService(db, lesR, stuR, broker),
		scoreSvc:  scorelog.NewService(scoreR, stuR, lesR, broker),
		todoSvc:   todo.NewService(todoR, stuR, broker),
		reportSvc: report.NewService(stuR, lesR, scoreR, todoR, broker),
		clipboard: clipsvc.NewConsoleClipboardMock(),
		exporter:  exportsvc.NewExcelExporter(conf),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s needs a version", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to needs a version"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"tutorsync"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_students(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "list empty", args: []string{"students"}},
		{name: "add missing fields", args: []string{"students", "add", "-name", "Sarah Tan"}, wantErr: errHelp},
		{name: "add", args: []string{"students", "add",
			"-name", "Sarah Tan", "-contact", "+65 9123 4567", "-location", "Blk 123 AMK",
			"-subject", "Mathematics", "-level", "GCE O-Level", "-rate", "60",
			"-exam-date", "2026-10-15", "-exam-topics", "Algebra"}},
		{name: "show missing id", args: []string{"students", "show"}, wantErr: errHelp},
		{name: "show unknown id", args: []string{"students", "show", "-id", "999"}, wantErr: student.ErrNotFound},
		{name: "search", args: []string{"students", "-search", "sarah"}},
	}
	for _, tt := range tests {
		args := append([]string{"tutorsync"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_studentsRm_confirm(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)
	args := []string{"tutorsync", "students", "rm", "-id", strconv.Itoa(stu.ID)}

	confirmFunc = func(prompt string) (bool, error) { return false, nil }
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if _, err := stuRepo.GetStudentByID(ctx, stu.ID); err != nil {
		t.Errorf("declined deletion still removed the student: %v", err)
	}

	confirmFunc = func(prompt string) (bool, error) { return true, nil }
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if _, err := stuRepo.GetStudentByID(ctx, stu.ID); err != student.ErrNotFound {
		t.Errorf("GetStudentByID() error = %v, want %v", err, student.ErrNotFound)
	}
}

func Test_commandLine_schedule(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)
	les := testutil.CreateLesson(t, lesRepo, stu.ID,
		time.Date(2026, time.September, 1, 16, 0, 0, 0, time.Local), 2, lesson.StatusScheduled, lesson.PaymentUnpaid)

	tests := []cliTest{
		{name: "list", args: []string{"schedule"}},
		{name: "add missing date", args: []string{"schedule", "add", "-student", strconv.Itoa(stu.ID)}, wantErr: errHelp},
		{name: "add", args: []string{"schedule", "add",
			"-student", strconv.Itoa(stu.ID), "-date", "2026-09-08 16:00", "-duration", "1.5"}},
		{name: "complete", args: []string{"schedule", "complete", "-id", strconv.Itoa(les.ID)}},
		{name: "complete again", args: []string{"schedule", "complete", "-id", strconv.Itoa(les.ID)}, wantErr: lesson.ErrNotScheduled},
		{name: "paid", args: []string{"schedule", "paid", "-id", strconv.Itoa(les.ID)}},
	}
	for _, tt := range tests {
		args := append([]string{"tutorsync"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	got, err := lesRepo.GetLessonByID(ctx, les.ID)
	if err != nil {
		t.Fatalf("GetLessonByID() failed: %v", err)
	}
	if got.Status != lesson.StatusPast || got.PaymentStatus != lesson.PaymentPaid {
		t.Errorf("lesson = %s/%s, want past/paid", got.Status, got.PaymentStatus)
	}
}

func Test_commandLine_billing(t *testing.T) {
	cli := setup(t)

	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)
	testutil.CreateLesson(t, lesRepo, stu.ID, time.Now(), 2, lesson.StatusPast, lesson.PaymentUnpaid)

	tests := []cliTest{
		{name: "all", args: []string{"billing"}},
		{name: "unpaid", args: []string{"billing", "-status", "unpaid"}},
		{name: "paid", args: []string{"billing", "-status", "paid"}},
		{name: "bad status", args: []string{"billing", "-status", "iou"},
			wantErrStr: `invalid status "iou" (want unpaid, paid or all)`},
		{name: "export", args: []string{"billing", "-export", "report.xlsx"}},
	}
	for _, tt := range tests {
		args := append([]string{"tutorsync"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			} else if err != nil {
				t.Errorf("cli.run() failed: %v", err)
			}
		})
	}

	t.Run("export writes the named workbook", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.xlsx")
		if err := cli.run([]string{"tutorsync", "billing", "-export", out}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("exported workbook missing: %v", err)
		}
	})
}

func Test_commandLine_todoAndAnalytics(t *testing.T) {
	cli := setup(t)

	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)

	tests := []cliTest{
		{name: "todo list empty", args: []string{"todo"}},
		{name: "todo add blank title", args: []string{"todo", "add", "-title", "  "}, wantErr: errHelp},
		{name: "todo add", args: []string{"todo", "add", "-title", "Grade mock paper",
			"-student", strconv.Itoa(stu.ID), "-urgency", "high", "-due", "2026-09-10"}},
		{name: "todo done", args: []string{"todo", "done", "-id", "1"}},
		{name: "log score", args: []string{"analytics", "log", "-student", strconv.Itoa(stu.ID),
			"-label", "CA1", "-score", "72"}},
		{name: "log bad score", args: []string{"analytics", "log", "-student", strconv.Itoa(stu.ID),
			"-label", "CA2", "-score", "lol"}, wantErr: errHelp},
		{name: "view trend", args: []string{"analytics", "-student", strconv.Itoa(stu.ID)}},
		{name: "view trend missing id", args: []string{"analytics"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"tutorsync"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_overviewCopy(t *testing.T) {
	cli := setup(t)

	stu := testutil.CreateStudent(t, stuRepo, "Sarah Tan", "Mathematics", 60)

	before := len(clipsvc.CopiedTexts)
	if err := cli.run([]string{"tutorsync", "overview", "-copy", strconv.Itoa(stu.ID)}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if len(clipsvc.CopiedTexts) != before+1 {
		t.Fatal("nothing was copied to the clipboard")
	}
	if got := clipsvc.CopiedTexts[len(clipsvc.CopiedTexts)-1]; got != stu.Location {
		t.Errorf("copied %q, want %q", got, stu.Location)
	}

	if err := cli.run([]string{"tutorsync", "overview"}); err != nil {
		t.Errorf("cli.run() failed: %v", err)
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"tutorsync", "seed"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	cnt, err := stuRepo.CountStudents(context.Background())
	if err != nil {
		t.Fatalf("CountStudents() failed: %v", err)
	}
	if cnt != 2 {
		t.Errorf("seed loaded %d students, want 2", cnt)
	}

	// idempotent
	if err := cli.run([]string{"tutorsync", "seed"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if cnt, _ = stuRepo.CountStudents(context.Background()); cnt != 2 {
		t.Errorf("second seed changed student count to %d", cnt)
	}
}
