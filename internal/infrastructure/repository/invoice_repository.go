package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	domainRepo "github.com/shifacare/medstore-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create persists the invoice and its items in one transaction. GORM
// saves the Items association inside the same transaction as the
// parent row, so a failed item insert rolls back the whole document.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateInvoiceNumber
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := applyInvoiceFilters(r.db.WithContext(ctx).Model(&entity.Invoice{}), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order(invoiceOrderClause(params.Sort)).
		Find(&invoices).Error

	return invoices, total, err
}

// SumRevenue aggregates stored two-decimal totals over the filtered
// set, so the displayed sum always matches the per-invoice figures.
func (r *invoiceRepository) SumRevenue(ctx context.Context, params *domainRepo.InvoiceFilterParams) (float64, error) {
	var revenue float64
	err := applyInvoiceFilters(r.db.WithContext(ctx).Model(&entity.Invoice{}), params).
		Select("COALESCE(SUM(total_revenue), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *invoiceRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Count(&total).Error
	return total, err
}

func applyInvoiceFilters(query *gorm.DB, params *domainRepo.InvoiceFilterParams) *gorm.DB {
	if params.Patient != "" {
		query = query.Where("patient_name ILIKE ?", "%"+params.Patient+"%")
	}

	if params.Month != nil {
		start := time.Date(params.Month.Year(), params.Month.Month(), 1, 0, 0, 0, 0, params.Month.Location())
		query = query.Where("sold_at >= ? AND sold_at < ?", start, start.AddDate(0, 1, 0))
	}

	if params.TransactionID != "" {
		query = query.Where("transaction_id = ?", params.TransactionID)
	}

	return query
}

func invoiceOrderClause(sort domainRepo.InvoiceSortKey) string {
	switch sort {
	case domainRepo.InvoiceSortDateOldest:
		return "sold_at ASC"
	case domainRepo.InvoiceSortRevenueHigh:
		return "total_revenue DESC"
	case domainRepo.InvoiceSortRevenueLow:
		return "total_revenue ASC"
	default:
		return "sold_at DESC"
	}
}
