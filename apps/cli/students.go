package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core/student"
)

func (cli *commandLine) students(args []string) error {
	ctx := context.Background()

	listCmd := flag.NewFlagSet("students", flag.ExitOnError)
	listSearch := listCmd.String("search", "", "Filter students by name or subject; near matches count.")

	addCmd := flag.NewFlagSet("students add", flag.ExitOnError)
	addName := addCmd.String("name", "", "The student's full name.")
	addContact := addCmd.String("contact", "", "Parent's phone number.")
	addLocation := addCmd.String("location", "", "Where lessons take place.")
	addSubject := addCmd.String("subject", "", "The subject taught.")
	addLevel := addCmd.String("level", "", "Academic level, e.g. GCE O-Level.")
	addRate := addCmd.Float64("rate", 0, "Hourly rate.")
	addExamDate := addCmd.String("exam-date", "", "Upcoming exam date (YYYY-MM-DD).")
	addExamTopics := addCmd.String("exam-topics", "", "Topics the exam covers.")

	showCmd := flag.NewFlagSet("students show", flag.ExitOnError)
	showID := showCmd.Int("id", 0, "The student's ID.")

	editCmd := flag.NewFlagSet("students edit", flag.ExitOnError)
	editID := editCmd.Int("id", 0, "The student's ID.")
	editName := editCmd.String("name", "", "New name; empty keeps the current one.")
	editContact := editCmd.String("contact", "", "New parent contact.")
	editLocation := editCmd.String("location", "", "New location.")
	editSubject := editCmd.String("subject", "", "New subject.")
	editLevel := editCmd.String("level", "", "New level.")
	editRate := editCmd.Float64("rate", -1, "New hourly rate; negative keeps the current one.")
	editExamDate := editCmd.String("exam-date", "", "New exam date (YYYY-MM-DD).")
	editExamTopics := editCmd.String("exam-topics", "", "New exam topics.")

	rmCmd := flag.NewFlagSet("students rm", flag.ExitOnError)
	rmID := rmCmd.Int("id", 0, "The student's ID.")

	if len(args) == 0 {
		return cli.listStudents(ctx, "")
	}

	switch args[0] {
	case "add":
		if err := addCmd.Parse(args[1:]); err != nil {
			return err
		}
		ns := student.NewStudent{
			Name:          *addName,
			ParentContact: *addContact,
			Location:      *addLocation,
			Subject:       *addSubject,
			Level:         *addLevel,
			ExamTopics:    *addExamTopics,
			HourlyRate:    *addRate,
		}
		if *addExamDate != "" {
			date, err := parseDate(*addExamDate)
			if err != nil {
				return err
			}
			ns.ExamDate = null.TimeFrom(date)
		}
		stu, err := cli.stuSvc.Create(ctx, ns)
		if err != nil {
			return printErrFields(err)
		}
		fmt.Printf("created student #%d %s\n", stu.ID, stu.Name)
		return nil

	case "show":
		if err := showCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *showID == 0 {
			showCmd.Usage()
			return errHelp
		}
		return cli.showStudent(ctx, *showID)

	case "edit":
		if err := editCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *editID == 0 {
			editCmd.Usage()
			return errHelp
		}
		us := student.UpdateStudent{
			Name:          *editName,
			ParentContact: *editContact,
			Location:      *editLocation,
			Subject:       *editSubject,
			Level:         *editLevel,
			ExamTopics:    *editExamTopics,
		}
		if *editRate >= 0 {
			us.HourlyRate = editRate
		}
		if *editExamDate != "" {
			date, err := parseDate(*editExamDate)
			if err != nil {
				return err
			}
			us.ExamDate = null.TimeFrom(date)
		}
		stu, err := cli.stuSvc.Update(ctx, *editID, us)
		if err != nil {
			return printErrFields(err)
		}
		fmt.Printf("updated student #%d %s\n", stu.ID, stu.Name)
		return nil

	case "rm":
		if err := rmCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *rmID == 0 {
			rmCmd.Usage()
			return errHelp
		}
		stu, err := cli.stuSvc.GetByID(ctx, *rmID)
		if err != nil {
			return err
		}
		ok, err := confirmFunc(fmt.Sprintf("delete %s and all their lessons, scores and tasks?", stu.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
		if err = cli.stuSvc.Delete(ctx, *rmID); err != nil {
			return err
		}
		fmt.Printf("deleted student #%d %s\n", stu.ID, stu.Name)
		return nil

	default:
		if err := listCmd.Parse(args); err != nil {
			return err
		}
		return cli.listStudents(ctx, *listSearch)
	}
}

func (cli *commandLine) listStudents(ctx context.Context, keyword string) error {
	var students []student.Student
	var err error
	if keyword != "" {
		students, err = cli.stuSvc.Search(ctx, keyword)
	} else {
		students, err = cli.stuSvc.QueryAll(ctx)
	}
	if err != nil {
		return err
	}

	if len(students) == 0 {
		fmt.Println("no students found")
		return nil
	}
	for _, stu := range students {
		fmt.Printf("#%-4d %-20s %-18s %-14s $%.2f/h\n", stu.ID, stu.Name, stu.Subject, stu.Level, stu.HourlyRate)
	}
	return nil
}

func (cli *commandLine) showStudent(ctx context.Context, id int) error {
	stu, err := cli.stuSvc.GetByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("#%d %s\n", stu.ID, stu.Name)
	fmt.Printf("  contact:  %s\n", stu.ParentContact)
	fmt.Printf("  location: %s\n", stu.Location)
	fmt.Printf("  subject:  %s (%s)\n", stu.Subject, stu.Level)
	fmt.Printf("  rate:     $%.2f/h\n", stu.HourlyRate)
	fmt.Printf("  exam:     %s", fmtNullDay(stu.ExamDate))
	if stu.ExamTopics.Valid {
		fmt.Printf(" (%s)", stu.ExamTopics.String)
	}
	fmt.Println()

	lessons, err := cli.lesSvc.ByStudent(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println("\nLessons:")
	if len(lessons) == 0 {
		fmt.Println("  (none)")
	}
	for _, les := range lessons {
		fmt.Printf("  #%-4d %s  %-9s %.1fh  %s\n", les.ID, fmtDate(les.Date), les.Status, les.DurationHours, les.PaymentStatus)
	}

	todos, err := cli.todoSvc.ByStudent(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println("\nTasks:")
	if len(todos) == 0 {
		fmt.Println("  (none)")
	}
	for _, td := range todos {
		done := " "
		if td.IsCompleted {
			done = "x"
		}
		fmt.Printf("  #%-4d [%s] %s\n", td.ID, done, td.Title)
	}
	return nil
}
