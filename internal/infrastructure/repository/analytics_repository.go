package repository

import (
	"context"
	"database/sql"
	"time"

	domainRepo "github.com/shifacare/medstore-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopMedicines(ctx context.Context, limit int) ([]domainRepo.TopMedicineResult, error) {
	var results []domainRepo.TopMedicineResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			m.id as medicine_id,
			m.name as medicine_name,
			COALESCE(SUM(ii.quantity), 0) as quantity_sold,
			COALESCE(SUM(ii.total), 0) as revenue
		FROM invoice_items ii
		JOIN medicines m ON m.id = ii.medicine_id
		WHERE ii.deleted_at IS NULL
		GROUP BY m.id, m.name
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var revenue sql.NullFloat64
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(total_revenue), 0)
			FROM invoices
			WHERE deleted_at IS NULL
			AND sold_at >= ? AND sold_at < ?
		`, startOfDay, endOfDay).Scan(&revenue).Error

		if err != nil {
			return nil, err
		}

		rev := 0.0
		if revenue.Valid {
			rev = revenue.Float64
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:    startOfDay,
			Revenue: rev,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_revenue), 0)
		FROM invoices
		WHERE deleted_at IS NULL
	`).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_revenue), 0)
		FROM invoices
		WHERE deleted_at IS NULL AND sold_at >= ?
	`, startOfMonth).Scan(&revenue).Error

	return revenue, err
}
