// Package export writes guest lists as Excel workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

var _ output.GuestSheetWriter = (*SheetWriter)(nil)

var columns = []string{
	"export.name",
	"export.group",
	"export.passes",
	"export.status",
	"export.confirmed_passes",
	"export.attended",
	"export.attended_at",
}

// SheetWriter renders one sheet per event with localized headers.
type SheetWriter struct {
	t   output.T
	loc *time.Location
}

// NewSheetWriter creates a SheetWriter; arrival times are written in loc.
func NewSheetWriter(t output.T, loc *time.Location) *SheetWriter {
	return &SheetWriter{t: t, loc: loc}
}

func (w *SheetWriter) GuestSheet(locale string, event entities.Event, guests []entities.Guest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.t.T(locale, "export.sheet", nil)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, key := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, w.t.T(locale, key, nil))
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	yes, no := w.t.T(locale, "export.yes", nil), w.t.T(locale, "export.no", nil)
	for i, g := range guests {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), g.Group)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), g.Passes)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), w.t.T(locale, "status."+g.Status, nil))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), g.ConfirmedPasses)
		if g.Attended {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), yes)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), g.AttendedAt.In(w.loc).Format("2006-01-02 15:04"))
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), no)
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: event.Name}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
