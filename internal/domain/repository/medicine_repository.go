package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/pkg/pagination"
)

// MedicineRepository defines the interface for catalog and stock operations
type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	// GetByIDs retrieves multiple medicines in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Medicine, error)
	Update(ctx context.Context, medicine *entity.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MedicineFilterParams) ([]entity.Medicine, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Medicine, error)
	Count(ctx context.Context) (int64, error)
	// AtomicDecrementBatch decrements stock units for multiple medicines,
	// failing any entry with insufficient stock. Returns the IDs that
	// failed; if any fail, nothing is decremented.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	// AtomicIncrementBatch adds stock units (donations, failed sales).
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// MedicineFilterParams contains filtering parameters for catalog queries
type MedicineFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches name and generic name
	CategoryID *uuid.UUID
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}
