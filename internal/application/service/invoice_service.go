package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/billing"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/pkg/apperror"
	"github.com/shifacare/medstore-api/pkg/pagination"
)

// InvoiceService turns checkout batches into persisted invoices and
// answers historical queries over them.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	medicineRepo repository.MedicineRepository
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	medicineRepo repository.MedicineRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		medicineRepo: medicineRepo,
		now:          time.Now,
	}
}

// SaleLineInput is one entry of a checkout batch. SalePrice is always
// per package; Total, when positive, was computed by the caller and is
// stored verbatim.
type SaleLineInput struct {
	MedicineID       *uuid.UUID    `json:"medicine_id"`
	Name             string        `json:"name"`
	Category         string        `json:"category"`
	Manufacturer     string        `json:"manufacturer"`
	Strength         string        `json:"strength"`
	PackSize         string        `json:"pack_size"`
	SellType         enum.SellType `json:"sell_type"`
	OriginalSellType enum.SellType `json:"original_sell_type"`
	Quantity         float64       `json:"quantity"`
	SalePrice        float64       `json:"sale_price"`
	Total            float64       `json:"total"`
}

// CreateInvoiceInput represents one checkout submission
type CreateInvoiceInput struct {
	PatientName   string          `json:"patient_name"`
	PatientPhone  *string         `json:"patient_phone"`
	PatientAge    *int            `json:"patient_age"`
	PatientGender *string         `json:"patient_gender"`
	TransactionID *string         `json:"transaction_id"`
	SoldBy        string          `json:"sold_by"`
	SoldAt        *time.Time      `json:"sold_at"`
	Lines         []SaleLineInput `json:"items"`
}

// CreateInvoice validates a checkout batch, prices every line, and
// persists the invoice with its items atomically. Stock is decremented
// before the write and restored if the write ultimately fails.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	lines := s.enrichFromCatalog(ctx, input.Lines)

	items := make([]entity.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, billing.Normalize(line))
	}

	soldAt := s.now()
	if input.SoldAt != nil {
		soldAt = *input.SoldAt
	}

	invoice := &entity.Invoice{
		InvoiceNumber: billing.NewInvoiceNumber(soldAt),
		PatientName:   billing.PatientNameOrDefault(input.PatientName),
		PatientPhone:  input.PatientPhone,
		PatientAge:    input.PatientAge,
		PatientGender: input.PatientGender,
		TotalRevenue:  billing.SumTotals(items),
		SoldBy:        input.SoldBy,
		TransactionID: input.TransactionID,
		SoldAt:        soldAt,
		Items:         items,
	}

	decrements := stockDecrements(lines)
	if len(decrements) > 0 {
		failedIDs, err := s.medicineRepo.AtomicDecrementBatch(ctx, decrements)
		if err != nil {
			return nil, apperror.NewPersistenceError("Failed to update stock")
		}
		if len(failedIDs) > 0 {
			return nil, apperror.NewBadRequestError(
				"Insufficient stock for: " + strings.Join(s.medicineNames(ctx, failedIDs), ", "))
		}
	}

	if err := s.persistWithRetry(ctx, invoice, soldAt); err != nil {
		if len(decrements) > 0 {
			if restoreErr := s.medicineRepo.AtomicIncrementBatch(ctx, decrements); restoreErr != nil {
				log.Printf("Failed to restore stock after invoice save failure: %v", restoreErr)
			}
		}
		return nil, err
	}

	return invoice, nil
}

// persistWithRetry writes the invoice, regenerating the invoice number
// once if the store reports a collision. A second collision, or any
// other write failure, is a persistence error.
func (s *InvoiceService) persistWithRetry(ctx context.Context, invoice *entity.Invoice, soldAt time.Time) error {
	err := s.invoiceRepo.Create(ctx, invoice)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
		return apperror.NewPersistenceError("Failed to save invoice")
	}

	invoice.InvoiceNumber = billing.NewInvoiceNumber(soldAt)
	err = s.invoiceRepo.Create(ctx, invoice)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
		return apperror.NewPersistenceError("Could not allocate a unique invoice number")
	}
	return apperror.NewPersistenceError("Failed to save invoice")
}

func validateCheckout(input *CreateInvoiceInput) error {
	var fieldErrors []apperror.FieldError

	if len(input.Lines) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "items",
			Message: "At least one sale item is required",
		})
	}
	for i, line := range input.Lines {
		if strings.TrimSpace(line.Name) == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: "Medicine name is required",
			})
		}
		if line.Quantity <= 0 || math.IsNaN(line.Quantity) || math.IsInf(line.Quantity, 0) {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "Quantity must be greater than zero",
			})
		}
		if line.SalePrice < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].sale_price", i),
				Message: "Sale price cannot be negative",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// enrichFromCatalog fills descriptive fields and the authoritative
// unit count from the catalog for lines that reference a medicine.
// A catalog lookup failure only degrades enrichment; the sale still
// goes through on the caller-supplied fields.
func (s *InvoiceService) enrichFromCatalog(ctx context.Context, inputs []SaleLineInput) []billing.SaleLine {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		if in.MedicineID != nil {
			ids = append(ids, *in.MedicineID)
		}
	}

	catalog := make(map[uuid.UUID]entity.Medicine, len(ids))
	if len(ids) > 0 {
		medicines, err := s.medicineRepo.GetByIDs(ctx, ids)
		if err != nil {
			log.Printf("Catalog lookup failed, selling on submitted fields: %v", err)
		}
		for _, m := range medicines {
			catalog[m.ID] = m
		}
	}

	lines := make([]billing.SaleLine, 0, len(inputs))
	for _, in := range inputs {
		line := billing.SaleLine{
			MedicineID:       in.MedicineID,
			Name:             in.Name,
			Category:         in.Category,
			Manufacturer:     in.Manufacturer,
			Strength:         in.Strength,
			PackSize:         in.PackSize,
			SellType:         in.SellType,
			OriginalSellType: in.OriginalSellType,
			Quantity:         in.Quantity,
			SalePrice:        in.SalePrice,
			Total:            in.Total,
		}
		if in.MedicineID != nil {
			if m, ok := catalog[*in.MedicineID]; ok {
				line.UnitsPerPackage = m.UnitsPerPackage
				if line.PackSize == "" {
					line.PackSize = m.PackSize
				}
				if line.Manufacturer == "" {
					line.Manufacturer = m.Manufacturer
				}
				if line.Strength == "" {
					line.Strength = m.Strength
				}
				if line.Category == "" && m.Category != nil {
					line.Category = m.Category.Name
				}
				if line.SalePrice == 0 {
					line.SalePrice = m.SalePrice
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// stockDecrements converts sold quantities into dispensing units per
// medicine. Package sales consume quantity x unit count, unit sales
// consume the quantity directly.
func stockDecrements(lines []billing.SaleLine) map[uuid.UUID]int {
	decrements := make(map[uuid.UUID]int)
	for _, line := range lines {
		if line.MedicineID == nil {
			continue
		}
		units := line.Quantity
		if line.EffectiveSellType() == enum.SellTypePackages {
			units = line.Quantity * float64(line.UnitCount())
		}
		n := int(math.Ceil(units))
		if n > 0 {
			decrements[*line.MedicineID] += n
		}
	}
	return decrements
}

func (s *InvoiceService) medicineNames(ctx context.Context, ids []uuid.UUID) []string {
	medicines, err := s.medicineRepo.GetByIDs(ctx, ids)
	if err != nil || len(medicines) == 0 {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.String()
		}
		return names
	}
	names := make([]string, 0, len(medicines))
	for _, m := range medicines {
		names = append(names, m.Name)
	}
	return names
}

// ListInvoicesOutput pairs a page of invoices with the revenue sum of
// the entire filtered set, so totals shown next to a page stay
// consistent regardless of pagination.
type ListInvoicesOutput struct {
	Result       *pagination.PaginatedResult[entity.Invoice]
	TotalRevenue float64
}

// ListInvoices returns a filtered, sorted page of invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*ListInvoicesOutput, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list invoices")
	}

	revenue, err := s.invoiceRepo.SumRevenue(ctx, params)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to total invoice revenue")
	}

	return &ListInvoicesOutput{
		Result: pagination.NewPaginatedResult(
			invoices,
			pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
		),
		TotalRevenue: billing.Round2(revenue),
	}, nil
}

// GetInvoice retrieves an invoice by ID with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}
