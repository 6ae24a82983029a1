package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutorsync/core/todo"
)

func (cli *commandLine) todo(args []string) error {
	ctx := context.Background()

	addCmd := flag.NewFlagSet("todo add", flag.ExitOnError)
	addTitle := addCmd.String("title", "", "What needs doing.")
	addStudent := addCmd.Int("student", 0, "Student the task relates to (optional).")
	addDue := addCmd.String("due", "", "Due date (YYYY-MM-DD, optional).")
	addUrgency := addCmd.String("urgency", "", "Urgency: low, medium (default) or high.")

	doneCmd := flag.NewFlagSet("todo done", flag.ExitOnError)
	doneID := doneCmd.Int("id", 0, "The task's ID.")

	rmCmd := flag.NewFlagSet("todo rm", flag.ExitOnError)
	rmID := rmCmd.Int("id", 0, "The task's ID.")

	if len(args) == 0 {
		return cli.listTodos(ctx)
	}

	switch args[0] {
	case "add":
		if err := addCmd.Parse(args[1:]); err != nil {
			return err
		}
		nt := todo.NewTodo{
			Title:   *addTitle,
			Urgency: *addUrgency,
		}
		if *addStudent > 0 {
			nt.StudentID = null.IntFrom(*addStudent)
		}
		if *addDue != "" {
			due, err := parseDate(*addDue)
			if err != nil {
				return err
			}
			nt.DueDate = null.TimeFrom(due)
		}
		td, err := cli.todoSvc.Create(ctx, nt)
		if err != nil {
			return printErrFields(err)
		}
		fmt.Printf("created task #%d %s\n", td.ID, td.Title)
		return nil

	case "done":
		if err := doneCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *doneID == 0 {
			doneCmd.Usage()
			return errHelp
		}
		td, err := cli.todoSvc.Complete(ctx, *doneID)
		if err != nil {
			return err
		}
		fmt.Printf("task #%d done\n", td.ID)
		return nil

	case "rm":
		if err := rmCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *rmID == 0 {
			rmCmd.Usage()
			return errHelp
		}
		td, err := cli.todoSvc.GetByID(ctx, *rmID)
		if err != nil {
			return err
		}
		ok, err := confirmFunc(fmt.Sprintf("delete task #%d %q?", td.ID, td.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
		if err = cli.todoSvc.Delete(ctx, *rmID); err != nil {
			return err
		}
		fmt.Printf("deleted task #%d\n", td.ID)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listTodos(ctx context.Context) error {
	todos, err := cli.todoSvc.Pending(ctx)
	if err != nil {
		return err
	}
	if len(todos) == 0 {
		fmt.Println("no pending tasks")
		return nil
	}
	for _, td := range todos {
		fmt.Printf("#%-4d [%-6s] %s (due %s)\n", td.ID, td.Urgency, td.Title, fmtNullDay(td.DueDate))
	}
	return nil
}
