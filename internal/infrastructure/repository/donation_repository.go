package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	domainRepo "github.com/shifacare/medstore-api/internal/domain/repository"
	"gorm.io/gorm"
)

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) domainRepo.DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	var donation entity.Donation
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		First(&donation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &donation, err
}

func (r *donationRepository) Update(ctx context.Context, donation *entity.Donation) error {
	return r.db.WithContext(ctx).Save(donation).Error
}

func (r *donationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Donation{}, "id = ?", id).Error
}

func (r *donationRepository) List(ctx context.Context, params *domainRepo.DonationFilterParams) ([]entity.Donation, int64, error) {
	var donations []entity.Donation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Donation{})

	if params.Search != "" {
		query = query.Where("donor_name ILIKE ?", "%"+params.Search+"%")
	}

	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	if params.Month != nil {
		start := time.Date(params.Month.Year(), params.Month.Month(), 1, 0, 0, 0, 0, params.Month.Location())
		query = query.Where("received_at >= ? AND received_at < ?", start, start.AddDate(0, 1, 0))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Medicine").
		Order("received_at DESC").
		Find(&donations).Error

	return donations, total, err
}

func (r *donationRepository) SumCashAmount(ctx context.Context, since *time.Time) (float64, error) {
	var amount float64
	query := r.db.WithContext(ctx).Model(&entity.Donation{}).
		Where("kind = ?", enum.DonationKindCash)
	if since != nil {
		query = query.Where("received_at >= ?", *since)
	}
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&amount).Error
	return amount, err
}

func (r *donationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Donation{}).Count(&total).Error
	return total, err
}
