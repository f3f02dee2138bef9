package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fintrack/internal/core"
)

// Required columns of an uploaded bulk CSV. Columns are located by header
// name, so exported files (which carry id and username columns as well)
// re-import as-is.
var importColumns = []string{"date", "category", "amount"}

type (
	// RowError records why a single upload row was skipped.
	RowError struct {
		Line int
		Err  error
	}

	// ImportResult summarizes a bulk upload. Skipped rows never fail
	// the batch.
	ImportResult struct {
		Imported  int
		Skipped   int
		RowErrors []RowError
	}

	importLayout struct {
		date, category, amount, note int
	}
)

// Import parses an uploaded CSV and appends each valid row as an expense
// owned by username. Rows are validated independently: malformed dates,
// unknown categories or bad amounts skip that row only.
func (t *Tracker) Import(ctx context.Context, username string, r io.Reader) (ImportResult, error) {
	var res ImportResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are per-row errors, not batch failures
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read upload header: %w", err)
	}
	layout, err := resolveImportLayout(header)
	if err != nil {
		return res, err
	}

	line := 1
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Err: err})
			continue
		}
		if err := t.importRow(ctx, username, layout, row); err != nil {
			res.Skipped++
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Err: err})
			continue
		}
		res.Imported++
	}

	slog.InfoContext(ctx, "Bulk import finished",
		"username", username,
		"imported", res.Imported,
		"skipped", res.Skipped)
	return res, nil
}

func (t *Tracker) importRow(ctx context.Context, username string, layout importLayout, row []string) error {
	need := layout.amount
	if layout.date > need {
		need = layout.date
	}
	if layout.category > need {
		need = layout.category
	}
	if len(row) <= need {
		return fmt.Errorf("expected at least %d columns, got %d", need+1, len(row))
	}

	date, err := core.ParseDate(row[layout.date])
	if err != nil {
		return err
	}
	cents, err := core.ParseDecimalToCents(row[layout.amount])
	if err != nil {
		return err
	}
	note := ""
	if layout.note >= 0 && layout.note < len(row) {
		note = row[layout.note]
	}

	_, _, err = t.AddExpense(ctx, core.Expense{
		Username: username,
		Date:     date,
		Category: strings.TrimSpace(row[layout.category]),
		Amount:   core.Money{Cents: cents},
		Note:     note,
	})
	return err
}

// resolveImportLayout locates the required columns by header name.
func resolveImportLayout(header []string) (importLayout, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	layout := importLayout{note: -1}
	for _, want := range importColumns {
		i, ok := idx[want]
		if !ok {
			return layout, fmt.Errorf("upload is missing the %q column", want)
		}
		switch want {
		case "date":
			layout.date = i
		case "category":
			layout.category = i
		case "amount":
			layout.amount = i
		}
	}
	if i, ok := idx["note"]; ok {
		layout.note = i
	}
	return layout, nil
}
