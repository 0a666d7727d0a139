package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/pkg/pagination"
)

// ErrDuplicateInvoiceNumber is returned by Create when the generated
// invoice number hits the store's uniqueness constraint. The aggregator
// regenerates once and retries; a second collision is fatal.
var ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

// InvoiceSortKey enumerates the supported sort orders for invoice lists.
type InvoiceSortKey string

const (
	InvoiceSortDateNewest  InvoiceSortKey = "date-newest"
	InvoiceSortDateOldest  InvoiceSortKey = "date-oldest"
	InvoiceSortRevenueHigh InvoiceSortKey = "revenue-high"
	InvoiceSortRevenueLow  InvoiceSortKey = "revenue-low"
)

// InvoiceFilterParams contains filtering parameters for invoice queries.
// Month, when set, selects the calendar month containing that instant.
type InvoiceFilterParams struct {
	Pagination    *pagination.PaginationParams
	Patient       string // substring match on patient name
	Month         *time.Time
	TransactionID string
	Sort          InvoiceSortKey
}

// InvoiceRepository defines the interface for invoice data operations.
// Invoices are immutable: there is deliberately no Update or Delete.
type InvoiceRepository interface {
	// Create persists the invoice together with its line items in one
	// transaction; either the whole document exists afterwards or none
	// of it does. Returns ErrDuplicateInvoiceNumber on a number clash.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// SumRevenue aggregates total_revenue over the same filtered set
	// List would return, ignoring pagination.
	SumRevenue(ctx context.Context, params *InvoiceFilterParams) (float64, error)
	Count(ctx context.Context) (int64, error)
}
