package main

import (
	"context"
	"flag"
	"fmt"
	"time"
)

func (cli *commandLine) overview(args []string) error {
	cmd := flag.NewFlagSet("overview", flag.ExitOnError)
	copyID := cmd.Int("copy", 0, "Copy the student's location to the clipboard.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	if *copyID > 0 {
		stu, err := cli.stuSvc.GetByID(ctx, *copyID)
		if err != nil {
			return err
		}
		if err = cli.clipboard.Copy(stu.Location); err != nil {
			return err
		}
		fmt.Printf("copied %s's location to the clipboard\n", stu.Name)
		return nil
	}

	ov, err := cli.reportSvc.Overview(ctx, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Students: %d | Lessons this week: %d | Pending tasks: %d\n\n",
		ov.StudentCount, ov.LessonsThisWeek, len(ov.PendingTodos))

	fmt.Println("Upcoming lessons:")
	if len(ov.Upcoming) == 0 {
		fmt.Println("  (none)")
	}
	for _, les := range ov.Upcoming {
		fmt.Printf("  #%-4d %s  %-20s %.1fh\n", les.ID, fmtDate(les.Date), studentName(les.Student), les.DurationHours)
	}

	fmt.Println("\nPending tasks:")
	if len(ov.PendingTodos) == 0 {
		fmt.Println("  (none)")
	}
	for _, td := range ov.PendingTodos {
		fmt.Printf("  #%-4d [%-6s] %s (due %s)\n", td.ID, td.Urgency, td.Title, fmtNullDay(td.DueDate))
	}
	return nil
}
