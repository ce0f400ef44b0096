package service

import (
	"bytes"
	"fmt"
	"time"

	"petwelfare/internal/models"

	"github.com/xuri/excelize/v2"
)

// StressExportHeader 压力导出表头
var StressExportHeader = []string{"Recorded At", "Category", "Score"}

// stressSheet 工作表名
const stressSheet = "Stress"

// GenerateStressExport 生成一周压力记录的 Excel 文件，最后一行为总分
func GenerateStressExport(weekNo int, records []models.Stress, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(stressSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range StressExportHeader {
		if err := setCell(f, col+1, 1, header); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetCellStyle(stressSheet, "A1", "C1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(stressSheet, "A", "A", 22); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(stressSheet, "B", "B", 16); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	row := 2
	for _, r := range records {
		values := []interface{}{r.CreatedAt.In(loc).Format("2006-01-02 15:04:05"), string(r.Category), r.Score}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				f.Close()
				return nil, err
			}
		}
		row++
	}

	if err := setCell(f, 2, row, fmt.Sprintf("Week %d total", weekNo)); err != nil {
		f.Close()
		return nil, err
	}
	if err := setCell(f, 3, row, models.SumScores(records)); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(stressSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
