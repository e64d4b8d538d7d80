package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jotaveeo/nocontrole-back/internal/alerts"
	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/logger"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// limitService implements the spending-limit engine: derived state,
// additive accrual against matching limits, and periodic resets.
type limitService struct {
	db        *gorm.DB
	publisher alerts.Publisher
}

// NewLimitService creates a new LimitServicer. The publisher receives
// threshold-crossing alerts; pass alerts.NopPublisher{} to disable.
func NewLimitService(db *gorm.DB, publisher alerts.Publisher) LimitServicer {
	return &limitService{db: db, publisher: publisher}
}

// NextResetTime computes the reset instant following lastReset for the given
// period. Monthly and yearly offsets are calendar-based with the day-of-month
// clamped to the target month's length (Jan 31 + 1 month = Feb 28/29).
func NextResetTime(lastReset time.Time, period models.LimitPeriod) time.Time {
	switch period {
	case models.LimitPeriodDaily:
		return lastReset.AddDate(0, 0, 1)
	case models.LimitPeriodWeekly:
		return lastReset.AddDate(0, 0, 7)
	case models.LimitPeriodYearly:
		return addClampedMonths(lastReset, 12)
	default: // monthly
		return addClampedMonths(lastReset, 1)
	}
}

// addClampedMonths adds calendar months without time.AddDate's day overflow
// normalization: the day-of-month is clamped to the target month's length.
func addClampedMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// ComputeSnapshot derives the read-only state of a limit. Percent used is
// clamped to [0, 100]; Exceeded tracks the unclamped accrued > ceiling
// comparison. A zero ceiling never divides: percent is 0 and the status
// stays normal.
func ComputeSnapshot(l *models.Limit) LimitSnapshot {
	snap := LimitSnapshot{
		LimitID:   l.ID,
		Name:      l.Name,
		Kind:      l.Kind,
		Ceiling:   l.Ceiling,
		Accrued:   l.Accrued,
		Period:    l.Period,
		LastReset: l.LastReset,
		NextReset: l.NextReset,
		Status:    LimitStatusNormal,
	}

	snap.Exceeded = l.Accrued > l.Ceiling

	if l.Ceiling <= 0 {
		return snap
	}

	remaining := l.Ceiling - l.Accrued
	if remaining < 0 {
		remaining = 0
	}
	snap.Remaining = remaining

	pct := float64(l.Accrued) / float64(l.Ceiling) * 100
	if pct > 100 {
		pct = 100
	}
	snap.PercentUsed = pct

	switch {
	case pct >= 100:
		snap.Status = LimitStatusExceeded
	case pct >= 90:
		snap.Status = LimitStatusCritical
	case pct >= 75:
		snap.Status = LimitStatusWarning
	case pct >= 50:
		snap.Status = LimitStatusCaution
	}

	return snap
}

// CreateLimit creates a new spending limit. Category- and card-kind limits
// require a reference that exists and belongs to the user.
func (s *limitService) CreateLimit(
	userID uint,
	name string,
	kind models.LimitKind,
	ceiling int64,
	period models.LimitPeriod,
	categoryID, cardID *uint,
	now time.Time,
) (*models.Limit, error) {
	if ceiling <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ceiling must be greater than zero")
	}

	switch kind {
	case models.LimitKindCategory:
		if categoryID == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category limit requires a category")
		}
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		cardID = nil
	case models.LimitKindCard:
		if cardID == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card limit requires a card")
		}
		var card models.Card
		if err := s.db.Where("id = ? AND user_id = ?", *cardID, userID).First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCardNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		categoryID = nil
	case models.LimitKindGeneral, models.LimitKindPeriod:
		categoryID = nil
		cardID = nil
	default:
		return nil, apperrors.ErrInvalidLimitKind
	}

	limit := &models.Limit{
		UserID:     userID,
		Name:       name,
		Kind:       kind,
		Ceiling:    ceiling,
		Accrued:    0,
		Period:     period,
		CategoryID: categoryID,
		CardID:     cardID,
		IsActive:   true,
		LastReset:  now,
		NextReset:  NextResetTime(now, period),
	}

	if err := s.db.Create(limit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return limit, nil
}

// GetUserLimits returns a paginated list of limits with optional filters.
func (s *limitService) GetUserLimits(
	userID uint,
	page pagination.PageRequest,
	kind *models.LimitKind,
	isActive *bool,
) (*pagination.PageResponse[models.Limit], error) {
	page.Defaults()

	base := s.db.Model(&models.Limit{}).Where("user_id = ?", userID)
	if kind != nil {
		base = base.Where("kind = ?", *kind)
	}
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var limits []models.Limit
	if err := base.Preload("Category").Preload("Card").Scopes(pagination.Paginate(page)).Find(&limits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(limits, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetLimitByID returns a limit by ID if it belongs to the user.
func (s *limitService) GetLimitByID(userID, limitID uint) (*models.Limit, error) {
	var limit models.Limit
	if err := s.db.Preload("Category").Preload("Card").Where("id = ? AND user_id = ?", limitID, userID).First(&limit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLimitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &limit, nil
}

// GetLimitSnapshot returns the derived state of a limit.
func (s *limitService) GetLimitSnapshot(userID, limitID uint) (*LimitSnapshot, error) {
	limit, err := s.GetLimitByID(userID, limitID)
	if err != nil {
		return nil, err
	}
	snap := ComputeSnapshot(limit)
	return &snap, nil
}

// UpsertCategoryLimit creates or replaces the single category-kind limit for
// the given category. Replacing keeps the accrual cycle: ceiling changes,
// accrued and reset timestamps stay.
func (s *limitService) UpsertCategoryLimit(userID, categoryID uint, ceiling int64, now time.Time) (*models.Limit, error) {
	if ceiling <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ceiling must be greater than zero")
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing models.Limit
	err := s.db.Where("user_id = ? AND kind = ? AND category_id = ?", userID, models.LimitKindCategory, categoryID).
		First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"ceiling":   ceiling,
			"is_active": true,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		existing.Ceiling = ceiling
		existing.IsActive = true
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	catID := categoryID
	limit := &models.Limit{
		UserID:     userID,
		Name:       category.Name,
		Kind:       models.LimitKindCategory,
		Ceiling:    ceiling,
		Period:     models.LimitPeriodMonthly,
		CategoryID: &catID,
		IsActive:   true,
		LastReset:  now,
		NextReset:  NextResetTime(now, models.LimitPeriodMonthly),
	}
	if err := s.db.Create(limit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return limit, nil
}

// DeleteLimit soft-deletes a limit.
func (s *limitService) DeleteLimit(userID, limitID uint) error {
	limit, err := s.GetLimitByID(userID, limitID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(limit).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteLimitByCategoryName soft-deletes the category-kind limit whose
// category has the given name.
func (s *limitService) DeleteLimitByCategoryName(userID uint, categoryName string) error {
	var category models.Category
	if err := s.db.Where("user_id = ? AND name = ?", userID, categoryName).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var limit models.Limit
	err := s.db.Where("user_id = ? AND kind = ? AND category_id = ?", userID, models.LimitKindCategory, category.ID).
		First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLimitNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&limit).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ApplyExpense adds the absolute amount to every active limit of the owner
// that matches the expense: general and period limits always, category limits
// on a matching category, card limits on a matching card. One expense may
// increment several limits. Each increment is a single atomic SQL update;
// individual failures are logged and skipped, never propagated.
func (s *limitService) ApplyExpense(userID uint, categoryID, cardID *uint, amount int64) error {
	if amount < 0 {
		amount = -amount
	}
	if amount == 0 {
		return nil
	}

	matching, err := s.findMatchingLimits(userID, categoryID, cardID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range matching {
		limit := &matching[i]
		err := s.db.Model(&models.Limit{}).
			Where("id = ?", limit.ID).
			UpdateColumn("accrued", gorm.Expr("accrued + ?", amount)).Error
		if err != nil {
			// Best effort: a stale counter is tolerated, the expense write
			// is never rolled back.
			logger.Get().Errorw("limit accrual failed",
				"limit_id", limit.ID,
				"user_id", userID,
				"amount", amount,
				"error", err.Error(),
			)
			continue
		}

		s.emitThresholdAlerts(limit.ID)
	}

	return nil
}

// findMatchingLimits selects the active limits an expense applies to.
func (s *limitService) findMatchingLimits(userID uint, categoryID, cardID *uint) ([]models.Limit, error) {
	scope := s.db.Where("kind IN ?", []models.LimitKind{models.LimitKindGeneral, models.LimitKindPeriod})
	if categoryID != nil {
		scope = scope.Or(s.db.Where("kind = ? AND category_id = ?", models.LimitKindCategory, *categoryID))
	}
	if cardID != nil {
		scope = scope.Or(s.db.Where("kind = ? AND card_id = ?", models.LimitKindCard, *cardID))
	}

	var limits []models.Limit
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Where(scope).
		Find(&limits).Error
	if err != nil {
		return nil, err
	}
	return limits, nil
}

// alertThresholds maps each alert percentage to its sent-flag column.
var alertThresholds = []struct {
	percent int
	column  string
	sent    func(*models.Limit) bool
}{
	{50, "alert_50_sent", func(l *models.Limit) bool { return l.Alert50Sent }},
	{75, "alert_75_sent", func(l *models.Limit) bool { return l.Alert75Sent }},
	{90, "alert_90_sent", func(l *models.Limit) bool { return l.Alert90Sent }},
	{100, "alert_100_sent", func(l *models.Limit) bool { return l.Alert100Sent }},
}

// emitThresholdAlerts re-reads the limit after an increment and publishes one
// alert for each newly crossed threshold, marking it so alerts fire once per
// reset cycle. Alerting is best-effort.
func (s *limitService) emitThresholdAlerts(limitID uint) {
	var limit models.Limit
	if err := s.db.First(&limit, limitID).Error; err != nil {
		logger.Get().Warnw("limit re-read for alerts failed", "limit_id", limitID, "error", err.Error())
		return
	}
	if limit.Ceiling <= 0 {
		return
	}

	rawPct := float64(limit.Accrued) / float64(limit.Ceiling) * 100
	snap := ComputeSnapshot(&limit)

	for _, t := range alertThresholds {
		if rawPct < float64(t.percent) || t.sent(&limit) {
			continue
		}

		if err := s.db.Model(&models.Limit{}).Where("id = ?", limit.ID).
			UpdateColumn(t.column, true).Error; err != nil {
			logger.Get().Warnw("alert flag update failed", "limit_id", limit.ID, "threshold", t.percent, "error", err.Error())
			continue
		}

		alert := &alerts.LimitAlert{
			UserID:      limit.UserID,
			LimitID:     limit.ID,
			LimitName:   limit.Name,
			Threshold:   t.percent,
			PercentUsed: snap.PercentUsed,
			Accrued:     limit.Accrued,
			Ceiling:     limit.Ceiling,
			Timestamp:   time.Now(),
		}
		if err := s.publisher.PublishLimitAlert(context.Background(), alert); err != nil {
			logger.Get().Warnw("limit alert publish failed", "limit_id", limit.ID, "threshold", t.percent, "error", err.Error())
		}
	}
}

// resetColumns builds the column updates for a reset at the given instant.
func resetColumns(period models.LimitPeriod, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"accrued":        0,
		"last_reset":     now,
		"next_reset":     NextResetTime(now, period),
		"alert_50_sent":  false,
		"alert_75_sent":  false,
		"alert_90_sent":  false,
		"alert_100_sent": false,
	}
}

// ResetLimit zeroes the accrued amount, stamps the reset instant, and
// recomputes the next reset. Safe to call repeatedly.
func (s *limitService) ResetLimit(userID, limitID uint, now time.Time) (*models.Limit, error) {
	limit, err := s.GetLimitByID(userID, limitID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(limit).Updates(resetColumns(limit.Period, now)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	limit.Accrued = 0
	limit.LastReset = now
	limit.NextReset = NextResetTime(now, limit.Period)
	limit.Alert50Sent = false
	limit.Alert75Sent = false
	limit.Alert90Sent = false
	limit.Alert100Sent = false
	return limit, nil
}

// FindDue returns every active limit whose next reset has passed, across all
// owners. The sweep is a system operation driven by an external scheduler.
func (s *limitService) FindDue(now time.Time) ([]models.Limit, error) {
	var limits []models.Limit
	err := s.db.Where("is_active = ? AND next_reset <= ?", true, now).Find(&limits).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return limits, nil
}

// RunDueResets resets every due limit in one bounded synchronous batch and
// returns the number of limits reset.
func (s *limitService) RunDueResets(now time.Time) (int, error) {
	due, err := s.FindDue(now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range due {
		limit := &due[i]
		if err := s.db.Model(limit).Updates(resetColumns(limit.Period, now)).Error; err != nil {
			logger.Get().Errorw("due reset failed", "limit_id", limit.ID, "error", err.Error())
			continue
		}
		count++
	}

	if count > 0 {
		logger.Get().Infow("due limit resets applied", "count", count)
	}
	return count, nil
}
