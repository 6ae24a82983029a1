package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/report"
)

func (cli *commandLine) billing(args []string) error {
	cmd := flag.NewFlagSet("billing", flag.ExitOnError)
	status := cmd.String("status", "all", "Filter rows: unpaid (includes pending), paid or all.")
	export := cmd.String("export", "", "Write the billing report to this .xlsx file instead of printing it.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	summary, err := cli.reportSvc.Billing(context.Background(), time.Now())
	if err != nil {
		return err
	}

	if *export != "" {
		path, err := cli.exporter.ExportBilling(summary, *export)
		if err != nil {
			return err
		}
		fmt.Printf("exported billing report to %s\n", path)
		return nil
	}

	rows, err := filterBillingRows(summary.Rows, *status)
	if err != nil {
		cmd.Usage()
		return err
	}

	if len(rows) == 0 {
		fmt.Println("no lessons to bill")
	}
	for _, row := range rows {
		fmt.Printf("#%-4d %s  %-20s %.1fh  $%-8.2f %s\n",
			row.ID, fmtDate(row.Date), studentName(row.Student), row.DurationHours, row.Cost, row.PaymentStatus)
	}
	fmt.Printf("\nOutstanding: $%.2f | Revenue this month: $%.2f\n", summary.Outstanding, summary.MonthRevenue)
	return nil
}

func filterBillingRows(rows []report.BillingRow, status string) ([]report.BillingRow, error) {
	switch status {
	case "all":
		return rows, nil
	case "unpaid", "paid":
	default:
		return nil, fmt.Errorf("invalid status %q (want unpaid, paid or all)", status)
	}

	filtered := make([]report.BillingRow, 0, len(rows))
	for _, row := range rows {
		paid := row.PaymentStatus == lesson.PaymentPaid
		if (status == "paid") == paid {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}
