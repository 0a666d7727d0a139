package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/pkg/apperror"
	"github.com/shifacare/medstore-api/pkg/pagination"
)

// DonationService records cash and in-kind gifts. Receiving a medicine
// donation adds the equivalent dispensing units to stock.
type DonationService struct {
	donationRepo repository.DonationRepository
	medicineRepo repository.MedicineRepository
	now          func() time.Time
}

// NewDonationService creates a new donation service
func NewDonationService(
	donationRepo repository.DonationRepository,
	medicineRepo repository.MedicineRepository,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		medicineRepo: medicineRepo,
		now:          time.Now,
	}
}

// CreateDonationInput represents the create donation input. Quantity
// is in packages and applies to medicine donations only.
type CreateDonationInput struct {
	DonorName    string            `json:"donor_name"`
	DonorContact *string           `json:"donor_contact"`
	Kind         enum.DonationKind `json:"kind"`
	Amount       float64           `json:"amount"`
	MedicineID   *uuid.UUID        `json:"medicine_id"`
	Quantity     int               `json:"quantity"`
	Notes        *string           `json:"notes"`
	ReceivedAt   *time.Time        `json:"received_at"`
	RecordedBy   string            `json:"-"`
}

// CreateDonation records a donation and, for medicine donations,
// credits the stock of the referenced catalog entry.
func (s *DonationService) CreateDonation(ctx context.Context, input *CreateDonationInput) (*entity.Donation, error) {
	if err := validateDonation(input); err != nil {
		return nil, err
	}

	receivedAt := s.now()
	if input.ReceivedAt != nil {
		receivedAt = *input.ReceivedAt
	}

	donation := &entity.Donation{
		DonorName:    input.DonorName,
		DonorContact: input.DonorContact,
		Kind:         input.Kind,
		Notes:        input.Notes,
		ReceivedAt:   receivedAt,
		RecordedBy:   input.RecordedBy,
	}

	var creditedUnits int
	switch input.Kind {
	case enum.DonationKindCash:
		donation.Amount = input.Amount
	case enum.DonationKindMedicine:
		medicine, err := s.medicineRepo.GetByID(ctx, *input.MedicineID)
		if err != nil {
			return nil, err
		}
		if medicine == nil {
			return nil, apperror.NewNotFoundError("Medicine")
		}
		donation.MedicineID = input.MedicineID
		donation.Quantity = input.Quantity

		creditedUnits = input.Quantity * unitsPerPackageOf(medicine)
		if err := s.medicineRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{medicine.ID: creditedUnits}); err != nil {
			return nil, apperror.NewPersistenceError("Failed to credit donated stock")
		}
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		if donation.MedicineID != nil && creditedUnits > 0 {
			// best effort rollback of the stock credit
			_, _ = s.medicineRepo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{*donation.MedicineID: creditedUnits})
		}
		return nil, apperror.NewPersistenceError("Failed to save donation")
	}

	return donation, nil
}

func unitsPerPackageOf(m *entity.Medicine) int {
	if m.UnitsPerPackage > 0 {
		return m.UnitsPerPackage
	}
	return 1
}

func validateDonation(input *CreateDonationInput) error {
	var fieldErrors []apperror.FieldError

	if strings.TrimSpace(input.DonorName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "donor_name", Message: "Donor name is required",
		})
	}
	if !input.Kind.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "kind", Message: "Kind must be cash or medicine",
		})
	}
	switch input.Kind {
	case enum.DonationKindCash:
		if input.Amount <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: "amount", Message: "Cash donations need a positive amount",
			})
		}
	case enum.DonationKindMedicine:
		if input.MedicineID == nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: "medicine_id", Message: "Medicine donations need a catalog medicine",
			})
		}
		if input.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field: "quantity", Message: "Quantity must be at least one package",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// UpdateDonationInput represents the update donation input. Only
// descriptive fields may change; kind, amount and quantity are fixed
// at receipt because stock was already credited.
type UpdateDonationInput struct {
	ID           uuid.UUID
	DonorName    *string `json:"donor_name"`
	DonorContact *string `json:"donor_contact"`
	Notes        *string `json:"notes"`
}

// UpdateDonation corrects the descriptive fields of a donation record
func (s *DonationService) UpdateDonation(ctx context.Context, input *UpdateDonationInput) (*entity.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NewNotFoundError("Donation")
	}

	if input.DonorName != nil && strings.TrimSpace(*input.DonorName) != "" {
		donation.DonorName = *input.DonorName
	}
	if input.DonorContact != nil {
		donation.DonorContact = input.DonorContact
	}
	if input.Notes != nil {
		donation.Notes = input.Notes
	}

	if err := s.donationRepo.Update(ctx, donation); err != nil {
		return nil, err
	}

	return donation, nil
}

// GetDonation retrieves a donation by ID
func (s *DonationService) GetDonation(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperror.NewNotFoundError("Donation")
	}
	return donation, nil
}

// ListDonations lists donations with filtering and pagination
func (s *DonationService) ListDonations(ctx context.Context, params *repository.DonationFilterParams) (*pagination.PaginatedResult[entity.Donation], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	donations, total, err := s.donationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(donations, pag), nil
}

// DeleteDonation removes a donation record. Stock credited by a
// medicine donation is left as-is; corrections go through the catalog.
func (s *DonationService) DeleteDonation(ctx context.Context, id uuid.UUID) error {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if donation == nil {
		return apperror.NewNotFoundError("Donation")
	}
	return s.donationRepo.Delete(ctx, id)
}
