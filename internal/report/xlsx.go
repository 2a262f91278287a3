package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/IvanShishkin/filemonitor/pkg/models"
	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SheetName is the name of the single worksheet in a report
const SheetName = "Files"

// Columns is the fixed column order of a report
var Columns = []string{"Folder Name", "File Name", "Full Path", "Modified Date", "Entered Date"}

// columnWidths match Columns
var columnWidths = []float64{20, 30, 60, 20, 20}

// row returns the cells of one record in column order
func row(r models.FileRecord) []interface{} {
	return []interface{}{r.FolderName, r.FileName, r.FullPath, r.ModifiedString(), r.EnteredString()}
}

// generateXLSX writes records to outputFile. The workbook is written to a
// temporary file next to outputFile and renamed over it, so a failed run
// never leaves a truncated report behind.
func (g *Generator) generateXLSX(records []models.FileRecord, outputFile string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	// Widths must be set before the first row
	for i, width := range columnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	header := make([]interface{}, len(Columns))
	for i, name := range Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row(rec)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return writeAtomic(f, outputFile, g.logger)
}

// writeAtomic saves the workbook through a temp file in the target directory
func writeAtomic(f *excelize.File, outputFile string, logger *zap.Logger) error {
	tmp, err := os.CreateTemp(filepath.Dir(outputFile), ".filemonitor-*.xlsx.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	size, err := f.WriteTo(tmp)
	if err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		logger.Debug("Failed to chmod report", zap.String("path", tmpName), zap.Error(err))
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, outputFile); err != nil {
		return err
	}
	committed = true

	logger.Debug("Report written",
		zap.String("path", outputFile),
		zap.String("size", humanize.Bytes(uint64(size))))
	return nil
}
