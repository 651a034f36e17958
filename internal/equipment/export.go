package equipment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Equipment"
	exportDateFmt   = "2006-01-02"
)

var exportHeaders = []interface{}{
	"ID", "Name", "Serial Number", "Category", "Location", "Status",
	"Department", "Maintenance Team", "Assigned Employee", "Purchase Date", "Warranty Expiry",
}

// ExportFilename names the download after the export day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("equipment_%s.xlsx", now.Format(exportDateFmt))
}

func exportRow(e *Equipment) []interface{} {
	var department, team, employee string
	if e.Department != nil {
		department = e.Department.Name
	}
	if e.MaintenanceTeam != nil {
		team = e.MaintenanceTeam.Name
	}
	if e.AssignedEmployee != nil {
		employee = e.AssignedEmployee.Name
	}
	return []interface{}{
		e.ID, e.Name, e.SerialNumber, e.Category, e.Location, string(e.Status),
		department, team, employee, e.PurchaseDate.Format(exportDateFmt), e.WarrantyExpiry.Format(exportDateFmt),
	}
}

// WriteXLSX renders items as a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, items []*Equipment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(item)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "C", 25)
	_ = f.SetColWidth(exportSheet, "G", "I", 25)

	return f.Write(w)
}

// Export renders the filtered equipment list into w.
func (s *Service) Export(ctx context.Context, q ListEquipmentQuery, w io.Writer) error {
	items, err := s.List(ctx, q)
	if err != nil {
		return err
	}
	if err := WriteXLSX(w, items); err != nil {
		s.logger.Error("failed to render equipment export", "error", err)
		return err
	}
	s.logger.Info("equipment exported", "rows", len(items))
	return nil
}
