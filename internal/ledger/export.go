package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteSalesCSV streams the sales table as CSV, header row first, in the
// same column layout as the persisted file.
func (s *Store) WriteSalesCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writer := csv.NewWriter(w)
	if err := writer.Write(saleColumns); err != nil {
		return err
	}
	for _, sale := range s.sales {
		if err := writer.Write(saleRecord(sale)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSalesXLSX streams the sales table as a single-sheet xlsx workbook.
func (s *Store) WriteSalesXLSX(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, name := range saleColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for row, sale := range s.sales {
		for col, value := range saleRecord(sale) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
