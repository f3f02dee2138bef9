package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"fintrack/internal/core"
)

// exportHeader matches the expense storage schema so an exported file can be
// re-imported (ids are regenerated on import).
var exportHeader = []string{"id", "username", "date", "category", "amount", "note"}

// ExportCSV serializes the given expenses to w in the storage schema.
// No transformation beyond formatting is applied.
func ExportCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, e := range expenses {
		row := []string{e.ID, e.Username, e.Date.String(), e.Category, e.Amount.Decimal(), e.Note}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// budgetsExportHeader matches the budget storage schema.
var budgetsExportHeader = []string{"username", "category", "month", "threshold"}

// ExportBudgetsCSV serializes the given budgets to w in the storage schema.
func ExportBudgetsCSV(w io.Writer, budgets []core.Budget) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(budgetsExportHeader); err != nil {
		return fmt.Errorf("write budgets export header: %w", err)
	}
	for _, b := range budgets {
		row := []string{b.Username, b.Category, b.Month.String(), b.Threshold.Decimal()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write budgets export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush budgets export: %w", err)
	}
	return nil
}
