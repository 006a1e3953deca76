package services

import (
	"fmt"
	"io"
	"time"

	"membergate/models"

	"github.com/xuri/excelize/v2"
)

const (
	checkinSheetName   = "Member Check-ins"
	checkinTimeLayout  = "2006-01-02 15:04:05"
	checkinColumnWidth = 24
)

var checkinHeader = []interface{}{"Member Code", "Display Name", "Checked In"}

// writeCheckinWorkbook renders entries as an XLSX workbook with one row per
// check-in, times shown in loc.
func writeCheckinWorkbook(w io.Writer, entries []models.CheckinEntry, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), checkinSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(checkinSheetName, "A1", &checkinHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			entry.Code,
			entry.DisplayName,
			entry.Timestamp.In(loc).Format(checkinTimeLayout),
		}
		if err := f.SetSheetRow(checkinSheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(checkinSheetName, "A", "C", checkinColumnWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return f.Write(w)
}
