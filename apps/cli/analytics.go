package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core/scorelog"
)

func (cli *commandLine) analytics(args []string) error {
	ctx := context.Background()

	viewCmd := flag.NewFlagSet("analytics", flag.ExitOnError)
	viewStudent := viewCmd.Int("student", 0, "The student's ID.")

	logCmd := flag.NewFlagSet("analytics log", flag.ExitOnError)
	logStudent := logCmd.Int("student", 0, "The student's ID.")
	logLabel := logCmd.String("label", "", "Test name, e.g. CA1.")
	logScore := logCmd.String("score", "", "Score out of 100.")
	logLesson := logCmd.Int("lesson", 0, "Past lesson the score was recorded in (optional).")

	if len(args) > 0 && args[0] == "log" {
		if err := logCmd.Parse(args[1:]); err != nil {
			return err
		}
		nsl := scorelog.NewScoreLog{
			StudentID: *logStudent,
			Label:     *logLabel,
			Score:     *logScore,
		}
		if *logLesson > 0 {
			nsl.LessonID = null.IntFrom(*logLesson)
		}
		log, err := cli.scoreSvc.Add(ctx, nsl)
		if err != nil {
			return printErrFields(err)
		}
		fmt.Printf("recorded %s: %s for student #%d\n", log.Label, log.Score, log.StudentID)
		return nil
	}

	if err := viewCmd.Parse(args); err != nil {
		return err
	}
	if *viewStudent == 0 {
		viewCmd.Usage()
		return errHelp
	}

	stu, err := cli.stuSvc.GetByID(ctx, *viewStudent)
	if err != nil {
		return err
	}
	trend, err := cli.reportSvc.StudentScoreTrend(ctx, stu.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s's scores:\n", stu.Name)
	if len(trend.Points) == 0 {
		fmt.Println("  (none)")
	}
	for _, pt := range trend.Points {
		fmt.Printf("  %-12s %5.1f  (%s)\n", pt.Label, pt.Score, fmtDay(pt.RecordedAt))
	}
	fmt.Printf("\nAverage: %.1f | Trend: %s\n", trend.Average, trend.Direction)
	return nil
}
