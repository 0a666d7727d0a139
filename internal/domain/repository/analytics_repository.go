package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopMedicineResult represents a top-selling medicine
type TopMedicineResult struct {
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	QuantitySold float64   `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// DailySalesResult represents revenue for a single day
type DailySalesResult struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// AnalyticsRepository provides aggregate queries for the dashboard
type AnalyticsRepository interface {
	GetTopMedicines(ctx context.Context, limit int) ([]TopMedicineResult, error)
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)
	GetTotalRevenue(ctx context.Context) (float64, error)
	GetMonthlyRevenue(ctx context.Context) (float64, error)
}
