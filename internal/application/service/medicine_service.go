package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/billing"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/pkg/apperror"
	"github.com/shifacare/medstore-api/pkg/pagination"
	"github.com/shifacare/medstore-api/pkg/utils"
)

// MedicineService handles catalog and stock operations
type MedicineService struct {
	medicineRepo repository.MedicineRepository
	categoryRepo repository.CategoryRepository
}

// NewMedicineService creates a new medicine service
func NewMedicineService(
	medicineRepo repository.MedicineRepository,
	categoryRepo repository.CategoryRepository,
) *MedicineService {
	return &MedicineService{
		medicineRepo: medicineRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateMedicineInput represents the create medicine input. SalePrice
// and PurchasePrice are per package. StockPackages is the initial
// stock expressed in packages; it is converted to dispensing units.
type CreateMedicineInput struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            string     `json:"name"`
	GenericName     string     `json:"generic_name"`
	Manufacturer    string     `json:"manufacturer"`
	Strength        string     `json:"strength"`
	PackSize        string     `json:"pack_size"`
	UnitsPerPackage int        `json:"units_per_package"`
	StockPackages   int        `json:"stock_packages"`
	StockAlert      int        `json:"stock_alert"`
	PurchasePrice   float64    `json:"purchase_price"`
	SalePrice       float64    `json:"sale_price"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	Notes           *string    `json:"notes"`
}

// CreateMedicine creates a new catalog entry
func (s *MedicineService) CreateMedicine(ctx context.Context, input *CreateMedicineInput) (*entity.Medicine, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Medicine name is required"},
		})
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	unitsPerPackage := input.UnitsPerPackage
	if unitsPerPackage < 1 {
		unitsPerPackage = billing.ExtractUnitCount(input.PackSize)
	}

	slug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	medicine := &entity.Medicine{
		CategoryID:      input.CategoryID,
		Name:            input.Name,
		Slug:            slug,
		GenericName:     input.GenericName,
		Manufacturer:    input.Manufacturer,
		Strength:        input.Strength,
		PackSize:        input.PackSize,
		UnitsPerPackage: unitsPerPackage,
		StockUnits:      input.StockPackages * unitsPerPackage,
		StockAlert:      input.StockAlert,
		PurchasePrice:   input.PurchasePrice,
		SalePrice:       input.SalePrice,
		ExpiryDate:      input.ExpiryDate,
		Notes:           input.Notes,
	}

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, err
	}

	return medicine, nil
}

// uniqueSlug derives a slug from the name, suffixing a counter when
// the plain slug is already taken.
func (s *MedicineService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.Slugify(name)
	slug := base
	for i := 2; ; i++ {
		existing, err := s.medicineRepo.GetBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// GetMedicine retrieves a medicine by ID
func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	return medicine, nil
}

// GetMedicineBySlug retrieves a medicine by slug
func (s *MedicineService) GetMedicineBySlug(ctx context.Context, slug string) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	return medicine, nil
}

// ListMedicines lists catalog entries with filtering and pagination
func (s *MedicineService) ListMedicines(ctx context.Context, params *repository.MedicineFilterParams) (*pagination.PaginatedResult[entity.Medicine], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	medicines, total, err := s.medicineRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(medicines, pag), nil
}

// UpdateMedicineInput represents the update medicine input. Nil fields
// are left unchanged.
type UpdateMedicineInput struct {
	ID              uuid.UUID
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            *string    `json:"name"`
	GenericName     *string    `json:"generic_name"`
	Manufacturer    *string    `json:"manufacturer"`
	Strength        *string    `json:"strength"`
	PackSize        *string    `json:"pack_size"`
	UnitsPerPackage *int       `json:"units_per_package"`
	StockUnits      *int       `json:"stock_units"`
	StockAlert      *int       `json:"stock_alert"`
	PurchasePrice   *float64   `json:"purchase_price"`
	SalePrice       *float64   `json:"sale_price"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	Notes           *string    `json:"notes"`
}

// UpdateMedicine updates a catalog entry
func (s *MedicineService) UpdateMedicine(ctx context.Context, input *UpdateMedicineInput) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}

	if input.Name != nil && *input.Name != medicine.Name {
		slug, err := s.uniqueSlug(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		medicine.Name = *input.Name
		medicine.Slug = slug
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		medicine.CategoryID = input.CategoryID
	}
	if input.GenericName != nil {
		medicine.GenericName = *input.GenericName
	}
	if input.Manufacturer != nil {
		medicine.Manufacturer = *input.Manufacturer
	}
	if input.Strength != nil {
		medicine.Strength = *input.Strength
	}
	if input.PackSize != nil {
		medicine.PackSize = *input.PackSize
	}
	if input.UnitsPerPackage != nil && *input.UnitsPerPackage >= 1 {
		medicine.UnitsPerPackage = *input.UnitsPerPackage
	}
	if input.StockUnits != nil && *input.StockUnits >= 0 {
		medicine.StockUnits = *input.StockUnits
	}
	if input.StockAlert != nil && *input.StockAlert >= 0 {
		medicine.StockAlert = *input.StockAlert
	}
	if input.PurchasePrice != nil {
		medicine.PurchasePrice = *input.PurchasePrice
	}
	if input.SalePrice != nil {
		medicine.SalePrice = *input.SalePrice
	}
	if input.ExpiryDate != nil {
		medicine.ExpiryDate = input.ExpiryDate
	}
	if input.Notes != nil {
		medicine.Notes = input.Notes
	}

	if err := s.medicineRepo.Update(ctx, medicine); err != nil {
		return nil, err
	}

	return medicine, nil
}

// DeleteMedicine removes a medicine from the catalog. Past invoices
// keep their copied descriptive fields so history stays intact.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if medicine == nil {
		return apperror.NewNotFoundError("Medicine")
	}
	return s.medicineRepo.Delete(ctx, id)
}

// GetLowStockMedicines returns medicines at or below their stock alert level
func (s *MedicineService) GetLowStockMedicines(ctx context.Context) ([]entity.Medicine, error) {
	return s.medicineRepo.GetLowStock(ctx)
}
