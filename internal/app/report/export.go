package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/tealeg/xlsx"

	"ytdl-bot/internal/app/model"
)

// ToExcel renders a usage report workbook with one sheet of named counters
// and one sheet of per-user daily usage.
func ToExcel(report model.UsageReport, outputFilePath string) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Counters")
	if err != nil {
		return err
	}
	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Counter"
	headerRow.AddCell().Value = "Value"
	headerRow.AddCell().Value = "Generated At"

	names := make([]string, 0, len(report.Counters))
	for name := range report.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row := sheet.AddRow()
		row.AddCell().Value = name
		row.AddCell().Value = fmt.Sprint(report.Counters[name])
		row.AddCell().Value = report.GeneratedAt.Format(time.RFC3339)
	}

	daily, err := file.AddSheet("Daily Usage")
	if err != nil {
		return err
	}
	dailyHeader := daily.AddRow()
	dailyHeader.AddCell().Value = "Chat ID"
	dailyHeader.AddCell().Value = "Requests Today"

	ids := make([]int64, 0, len(report.Daily))
	for id := range report.Daily {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		row := daily.AddRow()
		row.AddCell().Value = fmt.Sprint(id)
		row.AddCell().Value = fmt.Sprint(report.Daily[id])
	}

	return file.Save(outputFilePath)
}
