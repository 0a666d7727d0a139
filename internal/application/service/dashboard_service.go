package service

import (
	"context"
	"time"

	"github.com/shifacare/medstore-api/internal/domain/billing"
	"github.com/shifacare/medstore-api/internal/domain/repository"
)

// DashboardService aggregates the numbers shown on the store dashboard
type DashboardService struct {
	invoiceRepo   repository.InvoiceRepository
	medicineRepo  repository.MedicineRepository
	donationRepo  repository.DonationRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	invoiceRepo repository.InvoiceRepository,
	medicineRepo repository.MedicineRepository,
	donationRepo repository.DonationRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardService {
	return &DashboardService{
		invoiceRepo:   invoiceRepo,
		medicineRepo:  medicineRepo,
		donationRepo:  donationRepo,
		analyticsRepo: analyticsRepo,
		now:           time.Now,
	}
}

// DashboardStats represents the dashboard overview numbers
type DashboardStats struct {
	TotalInvoices        int64                          `json:"total_invoices"`
	TotalMedicines       int64                          `json:"total_medicines"`
	TotalDonations       int64                          `json:"total_donations"`
	TotalRevenue         float64                        `json:"total_revenue"`
	MonthlyRevenue       float64                        `json:"monthly_revenue"`
	CashDonationsAllTime float64                        `json:"cash_donations_all_time"`
	CashDonationsMonth   float64                        `json:"cash_donations_month"`
	LowStockCount        int                            `json:"low_stock_count"`
	TopMedicines         []repository.TopMedicineResult `json:"top_medicines"`
	DailySales           []repository.DailySalesResult  `json:"daily_sales"`
}

// GetDashboardStats collects counts, revenue and donation totals in
// one call. Partial failures surface as errors; the dashboard either
// shows consistent numbers or none.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalInvoices, err = s.invoiceRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalMedicines, err = s.medicineRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDonations, err = s.donationRepo.Count(ctx); err != nil {
		return nil, err
	}

	if stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx); err != nil {
		return nil, err
	}
	stats.TotalRevenue = billing.Round2(stats.TotalRevenue)

	if stats.MonthlyRevenue, err = s.analyticsRepo.GetMonthlyRevenue(ctx); err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = billing.Round2(stats.MonthlyRevenue)

	if stats.CashDonationsAllTime, err = s.donationRepo.SumCashAmount(ctx, nil); err != nil {
		return nil, err
	}
	stats.CashDonationsAllTime = billing.Round2(stats.CashDonationsAllTime)

	monthStart := s.monthStart()
	if stats.CashDonationsMonth, err = s.donationRepo.SumCashAmount(ctx, &monthStart); err != nil {
		return nil, err
	}
	stats.CashDonationsMonth = billing.Round2(stats.CashDonationsMonth)

	lowStock, err := s.medicineRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(lowStock)

	if stats.TopMedicines, err = s.analyticsRepo.GetTopMedicines(ctx, 5); err != nil {
		return nil, err
	}
	if stats.DailySales, err = s.analyticsRepo.GetDailySales(ctx, 30); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardService) monthStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
