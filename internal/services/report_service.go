package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
)

// reportService implements the aggregation/reporting engine. Every query is
// owner-scoped, counts confirmed transactions only, and returns zero-valued
// aggregates for empty result sets.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// monthWindow returns the first instant of now's month and the last instant
// of its final day.
func monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, now.Location())
	return start, end
}

// groupedSum is a scan target for grouped SUM/COUNT queries.
type groupedSum struct {
	GroupID uint  `gorm:"column:group_id"`
	Total   int64 `gorm:"column:total"`
	Count   int64 `gorm:"column:count"`
}

// GetBudgetView produces the per-category budget status for the calendar
// month containing now. Categories without a limit appear with budget 0.
// Status uses the coarse safe/warning/exceeded vocabulary.
func (s *reportService) GetBudgetView(userID uint, now time.Time) ([]CategoryBudget, error) {
	var categories []models.Category
	err := s.db.Where("user_id = ? AND type = ?", userID, models.CategoryTypeExpense).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var limits []models.Limit
	err = s.db.Where("user_id = ? AND kind = ? AND is_active = ?", userID, models.LimitKindCategory, true).
		Find(&limits).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	ceilingByCategory := make(map[uint]int64, len(limits))
	for _, l := range limits {
		if l.CategoryID != nil {
			ceilingByCategory[*l.CategoryID] = l.Ceiling
		}
	}

	start, end := monthWindow(now)
	var sums []groupedSum
	err = s.db.Model(&models.Transaction{}).
		Select("category_id AS group_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND type = ? AND status = ? AND category_id IS NOT NULL AND date BETWEEN ? AND ?",
			userID, models.TransactionTypeExpense, models.TransactionStatusConfirmed, start, end).
		Group("category_id").
		Scan(&sums).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	spentByCategory := make(map[uint]groupedSum, len(sums))
	for _, row := range sums {
		spentByCategory[row.GroupID] = row
	}

	view := make([]CategoryBudget, 0, len(categories))
	for _, cat := range categories {
		budget := ceilingByCategory[cat.ID]
		spent := spentByCategory[cat.ID].Total

		row := CategoryBudget{
			CategoryID:       cat.ID,
			Name:             cat.Name,
			Icon:             cat.Icon,
			Budget:           budget,
			Spent:            spent,
			TransactionCount: spentByCategory[cat.ID].Count,
			Status:           "safe",
		}

		if remaining := budget - spent; remaining > 0 {
			row.Remaining = remaining
		}

		if budget > 0 {
			rawPct := float64(spent) / float64(budget) * 100
			row.Percentage = math.Round(rawPct)
			if row.Percentage > 100 {
				row.Percentage = 100
			}
			switch {
			case rawPct >= 100:
				row.Status = "exceeded"
			case rawPct >= 80:
				row.Status = "warning"
			}
		}

		view = append(view, row)
	}

	return view, nil
}

// confirmedRow is the slim projection reports aggregate over.
type confirmedRow struct {
	Type   models.TransactionType
	Amount int64
	Date   time.Time
}

// findConfirmedInRange fetches confirmed transactions of the owner between
// start and end, inclusive.
func (s *reportService) findConfirmedInRange(userID uint, start, end time.Time) ([]confirmedRow, error) {
	var rows []confirmedRow
	err := s.db.Model(&models.Transaction{}).
		Select("type, amount, date").
		Where("user_id = ? AND status = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionStatusConfirmed, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// GetCashFlowReport returns exactly 12 entries for the given year, one per
// month, with a running cumulative balance. Months with no transactions are
// zero-valued, never omitted.
func (s *reportService) GetCashFlowReport(userID uint, year int) ([]CashFlowEntry, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 999999999, time.UTC)

	rows, err := s.findConfirmedInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]CashFlowEntry, 12)
	for i := range entries {
		entries[i].Month = i + 1
	}

	for _, row := range rows {
		idx := int(row.Date.Month()) - 1
		switch row.Type {
		case models.TransactionTypeIncome:
			entries[idx].Income += row.Amount
		case models.TransactionTypeExpense:
			entries[idx].Expense += row.Amount
		}
	}

	var cumulative int64
	for i := range entries {
		entries[i].Balance = entries[i].Income - entries[i].Expense
		cumulative += entries[i].Balance
		entries[i].CumulativeBalance = cumulative
	}

	return entries, nil
}

// GetCategoryReport breaks confirmed transactions down by category and type
// within the range, sorted descending by total. PercentOfTotal is relative to
// the grand total of the row's type; a zero denominator yields 0.
func (s *reportService) GetCategoryReport(userID uint, start, end time.Time) ([]GroupReportEntry, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	meta := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		meta[c.ID] = c
	}

	type typedSum struct {
		GroupID uint                   `gorm:"column:group_id"`
		Type    models.TransactionType `gorm:"column:type"`
		Total   int64                  `gorm:"column:total"`
		Count   int64                  `gorm:"column:count"`
	}
	var sums []typedSum
	err := s.db.Model(&models.Transaction{}).
		Select("category_id AS group_id, type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND status = ? AND category_id IS NOT NULL AND date BETWEEN ? AND ?",
			userID, models.TransactionStatusConfirmed, start, end).
		Group("category_id, type").
		Scan(&sums).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalByType := make(map[models.TransactionType]int64)
	for _, row := range sums {
		totalByType[row.Type] += row.Total
	}

	entries := make([]GroupReportEntry, 0, len(sums))
	for _, row := range sums {
		entry := GroupReportEntry{
			GroupID: row.GroupID,
			Type:    string(row.Type),
			Total:   row.Total,
			Count:   row.Count,
		}
		if c, ok := meta[row.GroupID]; ok {
			entry.Name = c.Name
			entry.Icon = c.Icon
			entry.Color = c.Color
		}
		if grand := totalByType[row.Type]; grand > 0 {
			entry.PercentOfTotal = math.Round(float64(row.Total)/float64(grand)*10000) / 100
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Total > entries[j].Total })
	return entries, nil
}

// GetCardReport breaks confirmed transactions down by card within the range,
// sorted descending by total.
func (s *reportService) GetCardReport(userID uint, start, end time.Time) ([]GroupReportEntry, error) {
	var cards []models.Card
	if err := s.db.Where("user_id = ?", userID).Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	meta := make(map[uint]models.Card, len(cards))
	for _, c := range cards {
		meta[c.ID] = c
	}

	type typedSum struct {
		GroupID uint                   `gorm:"column:group_id"`
		Type    models.TransactionType `gorm:"column:type"`
		Total   int64                  `gorm:"column:total"`
		Count   int64                  `gorm:"column:count"`
	}
	var sums []typedSum
	err := s.db.Model(&models.Transaction{}).
		Select("card_id AS group_id, type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND status = ? AND card_id IS NOT NULL AND date BETWEEN ? AND ?",
			userID, models.TransactionStatusConfirmed, start, end).
		Group("card_id, type").
		Scan(&sums).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalByType := make(map[models.TransactionType]int64)
	for _, row := range sums {
		totalByType[row.Type] += row.Total
	}

	entries := make([]GroupReportEntry, 0, len(sums))
	for _, row := range sums {
		entry := GroupReportEntry{
			GroupID: row.GroupID,
			Type:    string(row.Type),
			Total:   row.Total,
			Count:   row.Count,
		}
		if c, ok := meta[row.GroupID]; ok {
			entry.Name = c.Name
		}
		if grand := totalByType[row.Type]; grand > 0 {
			entry.PercentOfTotal = math.Round(float64(row.Total)/float64(grand)*10000) / 100
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Total > entries[j].Total })
	return entries, nil
}

// GetMonthlyEvolution iterates every calendar month overlapping [start, end]
// and produces one income/expense/balance summary per month. The range is not
// bound to a calendar year.
func (s *reportService) GetMonthlyEvolution(userID uint, start, end time.Time) ([]MonthSummary, error) {
	if end.Before(start) {
		return []MonthSummary{}, nil
	}

	rows, err := s.findConfirmedInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	type yearMonth struct {
		year  int
		month time.Month
	}
	indexOf := make(map[yearMonth]int)

	var summaries []MonthSummary
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	for !cursor.After(end) {
		indexOf[yearMonth{cursor.Year(), cursor.Month()}] = len(summaries)
		summaries = append(summaries, MonthSummary{Year: cursor.Year(), Month: int(cursor.Month())})
		cursor = cursor.AddDate(0, 1, 0)
	}

	for _, row := range rows {
		idx, ok := indexOf[yearMonth{row.Date.Year(), row.Date.Month()}]
		if !ok {
			continue
		}
		switch row.Type {
		case models.TransactionTypeIncome:
			summaries[idx].Income += row.Amount
		case models.TransactionTypeExpense:
			summaries[idx].Expense += row.Amount
		}
	}

	for i := range summaries {
		summaries[i].Balance = summaries[i].Income - summaries[i].Expense
	}

	return summaries, nil
}
