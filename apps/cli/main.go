package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/report"
	"github.com/trezcool/tutorsync/core/scorelog"
	"github.com/trezcool/tutorsync/core/student"
	"github.com/trezcool/tutorsync/core/todo"
	clipsvc "github.com/trezcool/tutorsync/services/clipboard"
	exportsvc "github.com/trezcool/tutorsync/services/export"
	logsvc "github.com/trezcool/tutorsync/services/logger"
	"github.com/trezcool/tutorsync/storage/database"
	sqliterepos "github.com/trezcool/tutorsync/storage/database/sqlite"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger = logsvc.NewConsoleLogger(std, conf)

	core.InitValidators()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	errAndDie(database.Migrate(db))

	// first run on a fresh store gets the demo data
	seeded, err := database.SeedIfEmpty(context.Background(), db)
	errAndDie(err)
	if seeded {
		logger.Info("empty store detected; demo data loaded")
	}

	// repos
	stuRepo := sqliterepos.NewStudentRepository(db)
	lesRepo := sqliterepos.NewLessonRepository(db)
	scoreRepo := sqliterepos.NewScoreLogRepository(db)
	todoRepo := sqliterepos.NewTodoRepository(db)

	// services
	broker := core.NewBroker()
	clip := clipsvc.NewSystemClipboard()
	if conf.TestMode {
		clip = clipsvc.NewConsoleClipboardMock()
	}

	// start CLI
	cli := commandLine{
		db:        db,
		stuSvc:    student.NewService(db, stuRepo, lesRepo, scoreRepo, todoRepo, broker),
		lesSvc:    lesson.NewService(db, lesRepo, stuRepo, broker),
		scoreSvc:  scorelog.NewService(scoreRepo, stuRepo, lesRepo, broker),
		todoSvc:   todo.NewService(todoRepo, stuRepo, broker),
		reportSvc: report.NewService(stuRepo, lesRepo, scoreRepo, todoRepo, broker),
		clipboard: clip,
		exporter:  exportsvc.NewExcelExporter(conf),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error())
	}
}
