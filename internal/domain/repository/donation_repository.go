package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"github.com/shifacare/medstore-api/pkg/pagination"
)

// DonationRepository defines the interface for donation data operations
type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	Update(ctx context.Context, donation *entity.Donation) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DonationFilterParams) ([]entity.Donation, int64, error)
	// SumCashAmount totals cash donations received at or after since;
	// a nil since covers all time.
	SumCashAmount(ctx context.Context, since *time.Time) (float64, error)
	Count(ctx context.Context) (int64, error)
}

// DonationFilterParams contains filtering parameters for donation queries
type DonationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches donor name
	Kind       *enum.DonationKind
	Month      *time.Time
}
