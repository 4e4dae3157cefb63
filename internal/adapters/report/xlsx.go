package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ogurasousui/employee-awards/internal/core/results"
	"github.com/xuri/excelize/v2"
)

// ContentType は XLSX の MIME タイプです。
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName は集計結果を書き込むシート名です。
const SheetName = "Winners"

var headers = []string{"Award", "Department", "Winners", "Votes", "Total Votes"}

var columnWidths = map[string]float64{"A": 28, "B": 20, "C": 40, "D": 10, "E": 12}

// WriteWinners は集計結果を 1 シートの XLSX として w に書き込みます。
// 票が無い集計単位は Winners 列に "No votes cast" を出力します。
func WriteWinners(w io.Writer, report *results.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("report: write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("report: apply header style: %w", err)
	}

	if report != nil {
		for i, e := range report.Entries {
			row := i + 2
			values := []any{e.AwardName, e.DepartmentLabel(), strings.Join(e.WinnerNames(), ", "), e.VoteCount, e.TotalVotes}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(SheetName, cell, v); err != nil {
					return fmt.Errorf("report: write row %d: %w", row, err)
				}
			}
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("report: column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write xlsx: %w", err)
	}
	return nil
}
