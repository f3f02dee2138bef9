package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

// handleIndex renders the dashboard page shell. The panels load themselves
// through the /ui/* partials.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	username, _ := auth.UserFrom(r.Context())
	cats, err := s.tracker.AvailableCategories(r.Context(), username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list error", "error", err, "username", username)
	}

	data := struct {
		Username   string
		Month      string
		Categories []string
	}{
		Username:   username,
		Month:      ParseMonthParams(r.URL.Query()).Month.String(),
		Categories: cats,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// monthExpenses loads the user's cached expense list restricted to a month.
func (s *Server) monthExpenses(r *http.Request, username string, month core.Month) ([]core.Expense, []core.Expense, error) {
	all, err := s.getExpenses(r.Context(), username)
	if err != nil {
		return nil, nil, err
	}
	var inMonth []core.Expense
	for _, e := range all {
		if month.Contains(e.Date) {
			inMonth = append(inMonth, e)
		}
	}
	return all, inMonth, nil
}

func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">templates not loaded</div>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).
			ErrorContext(r.Context(), "Template execution error", "error", err, "template", name)
		_, _ = w.Write([]byte(`<div class="placeholder">Error rendering panel</div>`))
	}
}

func (s *Server) partialError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logs.LogError(r.Context(), msg, err, applog.ComponentHTTP, applog.OpRender, applog.NewFields())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<div class="placeholder">Error loading panel</div>`))
}

// handleOverview renders the month summary panel: total, count, active
// days, daily average and the trend against the previous month.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UserFrom(r.Context())
	month := ParseMonthParams(r.URL.Query()).Month

	all, inMonth, err := s.monthExpenses(r, username, month)
	if err != nil {
		s.partialError(w, r, "Overview error", err)
		return
	}

	ov := report.Summarize(inMonth)
	cmp := report.CompareMonths(all, month)

	type topRow struct {
		Date     string
		Category string
		Amount   string
	}
	top := make([]topRow, 0, 5)
	for _, e := range report.TopExpenses(inMonth, 5) {
		top = append(top, topRow{
			Date:     e.Date.String(),
			Category: e.Category,
			Amount:   formatAmount(e.Amount.Cents),
		})
	}

	trendValue := ""
	trendClass := "trend--neutral"
	if cmp.PreviousTotal.Cents > 0 {
		diff := cmp.CurrentTotal.Cents - cmp.PreviousTotal.Cents
		switch {
		case diff < 0:
			trendValue = formatAmount(-diff) + " less than " + cmp.Previous.String()
			trendClass = "trend--down"
		case diff > 0:
			trendValue = formatAmount(diff) + " more than " + cmp.Previous.String()
			trendClass = "trend--up"
		default:
			trendValue = "same as " + cmp.Previous.String()
		}
	}

	data := struct {
		Month       string
		HasData     bool
		Total       string
		Count       int
		ActiveDays  int
		AvgPerDay   string
		TopCategory string
		TrendValue  string
		TrendClass  string
		Top         []topRow
	}{
		Month:       month.String(),
		HasData:     ov.Count > 0,
		Total:       formatAmount(ov.Total.Cents),
		Count:       ov.Count,
		ActiveDays:  ov.ActiveDays,
		AvgPerDay:   formatAmount(ov.AvgPerDay.Cents),
		TopCategory: ov.TopCategory,
		TrendValue:  trendValue,
		TrendClass:  trendClass,
		Top:         top,
	}
	s.renderPartial(w, r, "overview.html", data)
}

type barRow struct {
	Label  string
	Amount string
	Width  int
}

func toBarRows(buckets []report.BucketAmount) []barRow {
	var maxCents int64
	for _, b := range buckets {
		if b.Amount.Cents > maxCents {
			maxCents = b.Amount.Cents
		}
	}
	rows := make([]barRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, barRow{
			Label:  b.Label,
			Amount: formatAmount(b.Amount.Cents),
			Width:  barWidth(b.Amount.Cents, maxCents),
		})
	}
	return rows
}

// handleCategoryBreakdown renders per-category totals for the month.
func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UserFrom(r.Context())
	month := ParseMonthParams(r.URL.Query()).Month

	_, inMonth, err := s.monthExpenses(r, username, month)
	if err != nil {
		s.partialError(w, r, "Category breakdown error", err)
		return
	}

	byCat := report.SumByCategory(inMonth)
	var maxCents int64
	if len(byCat) > 0 {
		maxCents = byCat[0].Amount.Cents
	}
	rows := make([]barRow, 0, len(byCat))
	for _, c := range byCat {
		rows = append(rows, barRow{
			Label:  c.Name,
			Amount: formatAmount(c.Amount.Cents),
			Width:  barWidth(c.Amount.Cents, maxCents),
		})
	}

	data := struct {
		Month string
		Rows  []barRow
	}{Month: month.String(), Rows: rows}
	s.renderPartial(w, r, "categories.html", data)
}

// handleTrend renders the spending history: month-by-month across all
// data, or day-by-day within the selected month when span=daily.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UserFrom(r.Context())
	month := ParseMonthParams(r.URL.Query()).Month
	daily := r.URL.Query().Get("span") == "daily"

	all, inMonth, err := s.monthExpenses(r, username, month)
	if err != nil {
		s.partialError(w, r, "Trend error", err)
		return
	}

	var rows []barRow
	if daily {
		rows = toBarRows(report.SumByDay(inMonth))
	} else {
		rows = toBarRows(report.SumByMonth(all))
	}

	data := struct {
		Month string
		Daily bool
		Rows  []barRow
	}{Month: month.String(), Daily: daily, Rows: rows}
	s.renderPartial(w, r, "trend.html", data)
}

// handleWeekdays renders the Monday-first weekday distribution for a month.
func (s *Server) handleWeekdays(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UserFrom(r.Context())
	month := ParseMonthParams(r.URL.Query()).Month

	_, inMonth, err := s.monthExpenses(r, username, month)
	if err != nil {
		s.partialError(w, r, "Weekday chart error", err)
		return
	}

	data := struct {
		Month string
		Rows  []barRow
	}{Month: month.String(), Rows: toBarRows(report.SumByWeekday(inMonth))}
	s.renderPartial(w, r, "weekdays.html", data)
}

// handleBudgetStatus renders the budget panel for a month.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UserFrom(r.Context())
	month := ParseMonthParams(r.URL.Query()).Month

	statuses, err := s.tracker.CheckAlerts(r.Context(), username, month)
	if err != nil {
		s.partialError(w, r, "Budget status error", err)
		return
	}

	type budgetRow struct {
		Category  string
		Spent     string
		Threshold string
		Percent   int
		Exceeded  bool
	}
	rows := make([]budgetRow, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, budgetRow{
			Category:  st.Category,
			Spent:     formatAmount(st.Spent.Cents),
			Threshold: formatAmount(st.Threshold.Cents),
			Percent:   st.Percent,
			Exceeded:  st.Exceeded,
		})
	}

	data := struct {
		Month string
		Rows  []budgetRow
	}{Month: month.String(), Rows: rows}
	s.renderPartial(w, r, "budgets.html", data)
}

const recentLimit = 50

// handleRecentExpenses renders the filtered expense table, newest first.
func (s *Server) handleRecentExpenses(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UserFrom(r.Context())
	filter := ParseFilterParams(r.URL.Query())

	all, err := s.getExpenses(r.Context(), username)
	if err != nil {
		s.partialError(w, r, "Recent expenses error", err)
		return
	}
	matched := filter.Apply(all)

	// Newest first, capped for the table
	type expenseRow struct {
		Date     string
		Category string
		Amount   string
		Note     string
	}
	rows := make([]expenseRow, 0, recentLimit)
	for i := len(matched) - 1; i >= 0 && len(rows) < recentLimit; i-- {
		e := matched[i]
		rows = append(rows, expenseRow{
			Date:     e.Date.String(),
			Category: e.Category,
			Amount:   formatAmount(e.Amount.Cents),
			Note:     template.HTMLEscapeString(e.Note),
		})
	}

	data := struct {
		Rows    []expenseRow
		Total   string
		Matched int
	}{
		Rows:    rows,
		Total:   formatAmount(report.Summarize(matched).Total.Cents),
		Matched: len(matched),
	}
	s.renderPartial(w, r, "recent.html", data)
}
