// Package exportsvc writes billing reports to Excel workbooks.
package exportsvc

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/tutorsync/core"
	"github.com/trezcool/tutorsync/core/report"
)

const billingSheet = "Billing"

type ExcelExporter struct {
	dir string
}

func NewExcelExporter(conf *core.Config) *ExcelExporter {
	return &ExcelExporter{dir: conf.Export.Dir}
}

// ExportBilling writes the summary to an .xlsx workbook and returns its path.
// A relative name lands in the export directory; an empty name gets a
// timestamped one.
func (e ExcelExporter) ExportBilling(summary report.BillingSummary, name string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating export directory")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), billingSheet); err != nil {
		return "", errors.Wrap(err, "renaming sheet")
	}

	headers := []string{"Date", "Student", "Subject", "Duration (h)", "Rate", "Cost", "Payment Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", errors.Wrap(err, "resolving header cell")
		}
		if err = f.SetCellValue(billingSheet, cell, h); err != nil {
			return "", errors.Wrap(err, "writing header cell")
		}
	}

	for i, row := range summary.Rows {
		name, subject := "(deleted)", ""
		var rate float64
		if row.Student != nil {
			name, subject, rate = row.Student.Name, row.Student.Subject, row.Student.HourlyRate
		}
		values := []interface{}{
			row.Date.Format("2006-01-02 15:04"),
			name,
			subject,
			row.DurationHours,
			rate,
			row.Cost,
			row.PaymentStatus,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return "", errors.Wrap(err, "resolving cell")
			}
			if err = f.SetCellValue(billingSheet, cell, v); err != nil {
				return "", errors.Wrap(err, "writing cell")
			}
		}
	}

	totalsRow := len(summary.Rows) + 3
	totals := [][2]interface{}{
		{"Outstanding", summary.Outstanding},
		{"Revenue (this month)", summary.MonthRevenue},
	}
	for i, t := range totals {
		labelCell, err := excelize.CoordinatesToCellName(1, totalsRow+i)
		if err != nil {
			return "", errors.Wrap(err, "resolving totals cell")
		}
		valueCell, err := excelize.CoordinatesToCellName(2, totalsRow+i)
		if err != nil {
			return "", errors.Wrap(err, "resolving totals cell")
		}
		if err = f.SetCellValue(billingSheet, labelCell, t[0]); err != nil {
			return "", errors.Wrap(err, "writing totals cell")
		}
		if err = f.SetCellValue(billingSheet, valueCell, t[1]); err != nil {
			return "", errors.Wrap(err, "writing totals cell")
		}
	}

	if name == "" {
		name = fmt.Sprintf("billing-%s.xlsx", time.Now().Format("20060102-150405"))
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "saving workbook")
	}
	return path, nil
}
