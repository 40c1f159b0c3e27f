package service

import (
	"context"
	"fmt"
	"io"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const recapSheet = "Rekap Mingguan"

var recapHeader = []string{"No", "NIS", "Nama Siswa", "Kelas", "Hadir", "Sakit", "Izin", "Alpha", "Total"}

// ExportWeeklyRecap writes the weekly recap as an XLSX workbook to w and
// returns the range it covers.
func (s *ReportService) ExportWeeklyRecap(ctx context.Context, ref *model.Date, w io.Writer) (model.DateRange, error) {
	recap, err := s.WeeklyRecap(ctx, ref)
	if err != nil {
		return model.DateRange{}, err
	}

	f, err := BuildRecapWorkbook(recap)
	if err != nil {
		return model.DateRange{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("Failed to close recap workbook")
		}
	}()

	if err := f.Write(w); err != nil {
		return model.DateRange{}, fmt.Errorf("write recap workbook: %w", err)
	}
	return recap.Range, nil
}

// BuildRecapWorkbook lays out a weekly recap on a single sheet: a title row,
// a header row, then one row per student.
func BuildRecapWorkbook(recap *model.WeeklyRecap) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", recapSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	title := fmt.Sprintf("Rekap Absensi %s s/d %s", recap.Range.Start, recap.Range.End)
	if err := f.SetCellValue(recapSheet, "A1", title); err != nil {
		return nil, fmt.Errorf("set title: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	for i, h := range recapHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(recapSheet, cell, h); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(recapHeader), 3)
	if err := f.SetCellStyle(recapSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range recap.Data {
		values := []any{
			i + 1,
			row.NIS,
			row.StudentName,
			row.ClassName,
			row.Recap.Present,
			row.Recap.Sick,
			row.Recap.Excused,
			row.Recap.Absent,
			row.Recap.Total,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		if err := f.SetSheetRow(recapSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(recapSheet, "C", "D", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	return f, nil
}
