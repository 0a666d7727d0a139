package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/pkg/apperror"
)

type fakeDonationRepo struct {
	donations  []*entity.Donation
	failCreate bool
}

func (f *fakeDonationRepo) Create(ctx context.Context, d *entity.Donation) error {
	if f.failCreate {
		return assert.AnError
	}
	f.donations = append(f.donations, d)
	return nil
}

func (f *fakeDonationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	for _, d := range f.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDonationRepo) Update(ctx context.Context, d *entity.Donation) error { return nil }

func (f *fakeDonationRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeDonationRepo) List(ctx context.Context, params *repository.DonationFilterParams) ([]entity.Donation, int64, error) {
	out := make([]entity.Donation, 0, len(f.donations))
	for _, d := range f.donations {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDonationRepo) SumCashAmount(ctx context.Context, since *time.Time) (float64, error) {
	var sum float64
	for _, d := range f.donations {
		if d.Kind != enum.DonationKindCash {
			continue
		}
		if since != nil && d.ReceivedAt.Before(*since) {
			continue
		}
		sum += d.Amount
	}
	return sum, nil
}

func (f *fakeDonationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.donations)), nil
}

func TestCreateCashDonation(t *testing.T) {
	donationRepo := &fakeDonationRepo{}
	svc := NewDonationService(donationRepo, newFakeMedicineRepo())

	donation, err := svc.CreateDonation(context.Background(), &CreateDonationInput{
		DonorName:  "Fatima Trust",
		Kind:       enum.DonationKindCash,
		Amount:     5000,
		RecordedBy: "admin@store.org",
	})

	require.NoError(t, err)
	assert.Equal(t, 5000.0, donation.Amount)
	assert.Nil(t, donation.MedicineID)
	require.Len(t, donationRepo.donations, 1)
}

func TestCreateMedicineDonationCreditsStock(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Panadol",
		Slug:            "panadol",
		UnitsPerPackage: 10,
		StockUnits:      20,
	}
	medicineRepo := newFakeMedicineRepo(medicine)
	svc := NewDonationService(&fakeDonationRepo{}, medicineRepo)

	donation, err := svc.CreateDonation(context.Background(), &CreateDonationInput{
		DonorName:  "Fatima Trust",
		Kind:       enum.DonationKindMedicine,
		MedicineID: &medicine.ID,
		Quantity:   3,
		RecordedBy: "admin@store.org",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, donation.Quantity)
	// 3 packages of 10 units added
	assert.Equal(t, 50, medicineRepo.medicines[medicine.ID].StockUnits)
}

func TestCreateDonationValidation(t *testing.T) {
	svc := NewDonationService(&fakeDonationRepo{}, newFakeMedicineRepo())

	_, err := svc.CreateDonation(context.Background(), &CreateDonationInput{
		DonorName: "",
		Kind:      enum.DonationKindCash,
		Amount:    0,
	})

	require.Error(t, err)
	require.True(t, apperror.IsValidationError(err))
	assert.Len(t, apperror.GetAppError(err).Errors, 2)
}

func TestCreateMedicineDonationUnknownMedicine(t *testing.T) {
	svc := NewDonationService(&fakeDonationRepo{}, newFakeMedicineRepo())

	id := uuid.New()
	_, err := svc.CreateDonation(context.Background(), &CreateDonationInput{
		DonorName:  "Fatima Trust",
		Kind:       enum.DonationKindMedicine,
		MedicineID: &id,
		Quantity:   1,
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCreateDonationRollsBackStockOnSaveFailure(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Panadol",
		Slug:            "panadol",
		UnitsPerPackage: 10,
		StockUnits:      20,
	}
	medicineRepo := newFakeMedicineRepo(medicine)
	svc := NewDonationService(&fakeDonationRepo{failCreate: true}, medicineRepo)

	_, err := svc.CreateDonation(context.Background(), &CreateDonationInput{
		DonorName:  "Fatima Trust",
		Kind:       enum.DonationKindMedicine,
		MedicineID: &medicine.ID,
		Quantity:   2,
	})

	require.Error(t, err)
	assert.Equal(t, 20, medicineRepo.medicines[medicine.ID].StockUnits)
}
