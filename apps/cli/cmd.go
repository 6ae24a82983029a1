package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/report"
	"github.com/trezcool/tutorsync/core/scorelog"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
	exportsvc "github.com/trezcool/tutorsync/services/export"
)

var (
	confirmFunc = askConfirm // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB
	stuSvc    *student.Service
	lesSvc    *lesson.Service
	scoreSvc  *scorelog.Service
	todoSvc   *todo.Service
	reportSvc *report.Service
	clipboard core.Clipboard
	exporter  *exportsvc.ExcelExporter
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS]                                - run database migrations (up, down, status, ...)")
	fmt.Println("  seed                                                  - load the demo dataset when the store is empty")
	fmt.Println("  overview [-copy STUDENT_ID]                           - dashboard: metrics, upcoming lessons, pending tasks")
	fmt.Println("  students [-search KEYWORD]                            - list students")
	fmt.Println("  students add|show|edit|rm [ARGS]                      - manage students")
	fmt.Println("  schedule                                              - scheduled lessons plus latest completed ones")
	fmt.Println("  schedule add|edit|complete|paid|rm [ARGS]             - manage lessons")
	fmt.Println("  billing [-status unpaid|paid|all] [-export file.xlsx] - billing table and payment totals")
	fmt.Println("  analytics -student ID                                 - score trend for a student")
	fmt.Println("  analytics log -student ID -label LABEL -score SCORE   - record a test score")
	fmt.Println("  todo [add|done|rm] [ARGS]                             - manage tasks")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "overview":
		return cli.overview(args[2:])
	case "students":
		return cli.students(args[2:])
	case "schedule":
		return cli.schedule(args[2:])
	case "billing":
		return cli.billing(args[2:])
	case "analytics":
		return cli.analytics(args[2:])
	case "todo":
		return cli.todo(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func askConfirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// parseDate accepts a day or a day with wall-clock time, in local time.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", value)
}

func fmtDate(t time.Time) string {
	return t.Local().Format("Mon 02 Jan 2006 15:04")
}

func fmtDay(t time.Time) string {
	return t.Local().Format("02 Jan 2006")
}

func fmtNullDay(t null.Time) string {
	if !t.Valid {
		return "-"
	}
	return fmtDay(t.Time)
}

func studentName(stu *student.Student) string {
	if stu == nil {
		return "(deleted student)"
	}
	return stu.Name
}

// printErrFields renders a ValidationError field by field; other errors pass
// through to the caller.
func printErrFields(err error) error {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		fmt.Println("invalid input:")
		for _, fld := range vErr.Fields {
			fmt.Printf("  %s: %s\n", fld.Field, fld.Error)
		}
		return errHelp
	}
	return err
}
