package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/tutorsync/core/lesson"
)

// recentPastLimit caps the completed lessons shown under the schedule.
const recentPastLimit = 5

func (cli *commandLine) schedule(args []string) error {
	ctx := context.Background()

	addCmd := flag.NewFlagSet("schedule add", flag.ExitOnError)
	addStudent := addCmd.Int("student", 0, "The student's ID.")
	addDate := addCmd.String("date", "", "Lesson date (YYYY-MM-DD HH:MM).")
	addDuration := addCmd.Float64("duration", 0, "Duration in hours.")
	addPayment := addCmd.String("payment", "", "Payment status: unpaid (default), pending or paid.")
	addTopicsNext := addCmd.String("topics-next", "", "Topics planned for this lesson.")

	editCmd := flag.NewFlagSet("schedule edit", flag.ExitOnError)
	editID := editCmd.Int("id", 0, "The lesson's ID.")
	editDate := editCmd.String("date", "", "New date; empty keeps the current one.")
	editDuration := editCmd.Float64("duration", 0, "New duration; 0 keeps the current one.")
	editPayment := editCmd.String("payment", "", "New payment status.")
	editTopics := editCmd.String("topics", "", "Topics covered.")
	editTopicsNext := editCmd.String("topics-next", "", "Topics planned for the next lesson.")

	completeCmd := flag.NewFlagSet("schedule complete", flag.ExitOnError)
	completeID := completeCmd.Int("id", 0, "The lesson's ID.")

	paidCmd := flag.NewFlagSet("schedule paid", flag.ExitOnError)
	paidID := paidCmd.Int("id", 0, "The lesson's ID.")

	rmCmd := flag.NewFlagSet("schedule rm", flag.ExitOnError)
	rmID := rmCmd.Int("id", 0, "The lesson's ID.")

	if len(args) == 0 {
		return cli.listSchedule(ctx)
	}

	switch args[0] {
	case "add":
		if err := addCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *addDate == "" {
			addCmd.Usage()
			return errHelp
		}
		date, err := parseDate(*addDate)
		if err != nil {
			return err
		}
		les, err := cli.lesSvc.Create(ctx, lesson.NewLesson{
			StudentID:     *addStudent,
			Date:          date,
			DurationHours: *addDuration,
			PaymentStatus: *addPayment,
			TopicsForNext: *addTopicsNext,
		})
		if err != nil {
			return printErrFields(err)
		}
		fmt.Printf("scheduled lesson #%d on %s\n", les.ID, fmtDate(les.Date))
		return nil

	case "edit":
		if err := editCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *editID == 0 {
			editCmd.Usage()
			return errHelp
		}
		ul := lesson.UpdateLesson{
			PaymentStatus: *editPayment,
			TopicsCovered: *editTopics,
			TopicsForNext: *editTopicsNext,
		}
		if *editDate != "" {
			date, err := parseDate(*editDate)
			if err != nil {
				return err
			}
			ul.Date = date
		}
		if *editDuration > 0 {
			ul.DurationHours = editDuration
		}
		les, err := cli.lesSvc.Update(ctx, *editID, ul)
		if err != nil {
			return printErrFields(err)
		}
		fmt.Printf("updated lesson #%d\n", les.ID)
		return nil

	case "complete":
		if err := completeCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *completeID == 0 {
			completeCmd.Usage()
			return errHelp
		}
		completed, followUp, err := cli.lesSvc.Complete(ctx, *completeID)
		if err != nil {
			return err
		}
		fmt.Printf("completed lesson #%d; follow-up #%d scheduled on %s\n",
			completed.ID, followUp.ID, fmtDate(followUp.Date))
		return nil

	case "paid":
		if err := paidCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *paidID == 0 {
			paidCmd.Usage()
			return errHelp
		}
		les, err := cli.lesSvc.MarkPaid(ctx, *paidID)
		if err != nil {
			return err
		}
		fmt.Printf("lesson #%d marked paid\n", les.ID)
		return nil

	case "rm":
		if err := rmCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *rmID == 0 {
			rmCmd.Usage()
			return errHelp
		}
		les, err := cli.lesSvc.GetByID(ctx, *rmID)
		if err != nil {
			return err
		}
		ok, err := confirmFunc(fmt.Sprintf("delete lesson #%d on %s?", les.ID, fmtDate(les.Date)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
		if err = cli.lesSvc.Delete(ctx, *rmID); err != nil {
			return err
		}
		fmt.Printf("deleted lesson #%d\n", les.ID)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listSchedule(ctx context.Context) error {
	scheduled, err := cli.reportSvc.ScheduledLessons(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Scheduled:")
	if len(scheduled) == 0 {
		fmt.Println("  (none)")
	}
	for _, les := range scheduled {
		fmt.Printf("  #%-4d %s  %-20s %.1fh  %s\n",
			les.ID, fmtDate(les.Date), studentName(les.Student), les.DurationHours, les.PaymentStatus)
	}

	past, err := cli.reportSvc.RecentPastLessons(ctx, recentPastLimit)
	if err != nil {
		return err
	}
	fmt.Println("\nRecently completed:")
	if len(past) == 0 {
		fmt.Println("  (none)")
	}
	for _, les := range past {
		topics := "-"
		if les.TopicsCovered.Valid {
			topics = les.TopicsCovered.String
		}
		fmt.Printf("  #%-4d %s  %-20s %s\n", les.ID, fmtDate(les.Date), studentName(les.Student), topics)
	}
	return nil
}
