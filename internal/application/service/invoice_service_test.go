package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifacare/medstore-api/internal/domain/billing"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/pkg/apperror"
)

type fakeInvoiceRepo struct {
	invoices       []*entity.Invoice
	duplicateTimes int // force a number collision on the next N creates
	failCreate     bool
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if f.failCreate {
		return assert.AnError
	}
	if f.duplicateTimes > 0 {
		f.duplicateTimes--
		return repository.ErrDuplicateInvoiceNumber
	}
	for _, existing := range f.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return repository.ErrDuplicateInvoiceNumber
		}
	}
	f.invoices = append(f.invoices, invoice)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetByInvoiceNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	out := make([]entity.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) SumRevenue(ctx context.Context, params *repository.InvoiceFilterParams) (float64, error) {
	var sum float64
	for _, inv := range f.invoices {
		sum += inv.TotalRevenue
	}
	return sum, nil
}

func (f *fakeInvoiceRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.invoices)), nil
}

type fakeMedicineRepo struct {
	medicines  map[uuid.UUID]*entity.Medicine
	failLookup bool
}

func newFakeMedicineRepo(medicines ...*entity.Medicine) *fakeMedicineRepo {
	m := make(map[uuid.UUID]*entity.Medicine, len(medicines))
	for _, med := range medicines {
		m[med.ID] = med
	}
	return &fakeMedicineRepo{medicines: m}
}

func (f *fakeMedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	f.medicines[m.ID] = m
	return nil
}

func (f *fakeMedicineRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	return f.medicines[id], nil
}

func (f *fakeMedicineRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	if f.failLookup {
		return nil, assert.AnError
	}
	out := make([]entity.Medicine, 0, len(ids))
	for _, id := range ids {
		if m, ok := f.medicines[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicineRepo) GetBySlug(ctx context.Context, slug string) (*entity.Medicine, error) {
	for _, m := range f.medicines {
		if m.Slug == slug {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	f.medicines[m.ID] = m
	return nil
}

func (f *fakeMedicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.medicines, id)
	return nil
}

func (f *fakeMedicineRepo) List(ctx context.Context, params *repository.MedicineFilterParams) ([]entity.Medicine, int64, error) {
	out := make([]entity.Medicine, 0, len(f.medicines))
	for _, m := range f.medicines {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMedicineRepo) GetLowStock(ctx context.Context) ([]entity.Medicine, error) {
	var out []entity.Medicine
	for _, m := range f.medicines {
		if m.StockUnits <= m.StockAlert {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicineRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.medicines)), nil
}

func (f *fakeMedicineRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, amount := range decrements {
		m, ok := f.medicines[id]
		if !ok || m.StockUnits < amount {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, amount := range decrements {
		f.medicines[id].StockUnits -= amount
	}
	return nil, nil
}

func (f *fakeMedicineRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		if m, ok := f.medicines[id]; ok {
			m.StockUnits += amount
		}
	}
	return nil
}

func newTestInvoiceService(invoiceRepo *fakeInvoiceRepo, medicineRepo *fakeMedicineRepo) *InvoiceService {
	svc := NewInvoiceService(invoiceRepo, medicineRepo)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestCreateInvoiceRejectsEmptyBatch(t *testing.T) {
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, newFakeMedicineRepo())

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestCreateInvoiceRejectsBadLines(t *testing.T) {
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, newFakeMedicineRepo())

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		SoldBy: "staff@store.org",
		Lines: []SaleLineInput{
			{Name: "", Quantity: 1, SalePrice: 10},
			{Name: "Panadol", Quantity: 0, SalePrice: 10},
		},
	})

	require.Error(t, err)
	require.True(t, apperror.IsValidationError(err))
	appErr := apperror.GetAppError(err)
	assert.Len(t, appErr.Errors, 2)
}

func TestCreateInvoiceDefaultsWalkInPatient(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{}
	svc := newTestInvoiceService(invoiceRepo, newFakeMedicineRepo())

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "   ",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{Name: "Panadol", Quantity: 2, SalePrice: 50},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, billing.WalkInPatient, invoice.PatientName)
	require.Len(t, invoiceRepo.invoices, 1)
}

func TestCreateInvoiceTotals(t *testing.T) {
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, newFakeMedicineRepo())

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			// 2 packages at 50
			{Name: "Panadol", PackSize: "10 tablets", Quantity: 2, SalePrice: 50},
			// 5 tablets at 100 per 10-tablet package
			{Name: "Augmentin", PackSize: "10 tablets", SellType: enum.SellTypeUnits, Quantity: 5, SalePrice: 100},
		},
	})

	require.NoError(t, err)
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, 100.0, invoice.Items[0].Total)
	assert.Equal(t, 50.0, invoice.Items[1].Total)
	assert.Equal(t, 150.0, invoice.TotalRevenue)
	assert.Regexp(t, `^INV-2025-[0-9A-F]{8}$`, invoice.InvoiceNumber)
	assert.Equal(t, time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), invoice.SoldAt)
}

func TestCreateInvoiceKeepsCallerTotalVerbatim(t *testing.T) {
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, newFakeMedicineRepo())

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{Name: "Panadol", Quantity: 2, SalePrice: 50, Total: 42.17},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 42.17, invoice.Items[0].Total)
	assert.Equal(t, 42.17, invoice.TotalRevenue)
}

func TestCreateInvoiceEnrichesFromCatalog(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Augmentin 625mg",
		Slug:            "augmentin-625mg",
		Manufacturer:    "GSK",
		Strength:        "625mg",
		PackSize:        "6 tablets",
		UnitsPerPackage: 6,
		StockUnits:      60,
		SalePrice:       240,
	}
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, newFakeMedicineRepo(medicine))

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{MedicineID: &medicine.ID, Name: "Augmentin 625mg", SellType: enum.SellTypeUnits, Quantity: 3, SalePrice: 240},
		},
	})

	require.NoError(t, err)
	item := invoice.Items[0]
	assert.Equal(t, "GSK", item.Manufacturer)
	assert.Equal(t, "625mg", item.Strength)
	assert.Equal(t, "6 tablets", item.PackSize)
	// 240 per 6-tablet package, 3 tablets sold
	assert.Equal(t, 120.0, item.Total)
}

func TestCreateInvoiceSurvivesCatalogFailure(t *testing.T) {
	medicineRepo := newFakeMedicineRepo()
	medicineRepo.failLookup = true
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, medicineRepo)

	id := uuid.New()
	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{MedicineID: &id, Name: "Panadol", PackSize: "10 tablets", Quantity: 1, SalePrice: 50},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 50.0, invoice.TotalRevenue)
}

func TestCreateInvoiceDecrementsStock(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Panadol",
		Slug:            "panadol",
		UnitsPerPackage: 10,
		StockUnits:      100,
		SalePrice:       50,
	}
	medicineRepo := newFakeMedicineRepo(medicine)
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, medicineRepo)

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{MedicineID: &medicine.ID, Name: "Panadol", Quantity: 2, SalePrice: 50},
		},
	})

	require.NoError(t, err)
	// 2 packages of 10 units
	assert.Equal(t, 80, medicineRepo.medicines[medicine.ID].StockUnits)
}

func TestCreateInvoiceInsufficientStock(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Panadol",
		Slug:            "panadol",
		UnitsPerPackage: 10,
		StockUnits:      5,
		SalePrice:       50,
	}
	invoiceRepo := &fakeInvoiceRepo{}
	svc := newTestInvoiceService(invoiceRepo, newFakeMedicineRepo(medicine))

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{MedicineID: &medicine.ID, Name: "Panadol", Quantity: 1, SalePrice: 50},
		},
	})

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "Panadol")
	assert.Empty(t, invoiceRepo.invoices)
}

func TestCreateInvoiceRetriesOnNumberCollision(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{duplicateTimes: 1}
	svc := newTestInvoiceService(invoiceRepo, newFakeMedicineRepo())

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{Name: "Panadol", Quantity: 1, SalePrice: 50},
		},
	})

	require.NoError(t, err)
	require.Len(t, invoiceRepo.invoices, 1)
	assert.Regexp(t, `^INV-2025-[0-9A-F]{8}$`, invoice.InvoiceNumber)
}

func TestCreateInvoiceFailsAfterSecondCollision(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Panadol",
		Slug:            "panadol",
		UnitsPerPackage: 10,
		StockUnits:      100,
		SalePrice:       50,
	}
	medicineRepo := newFakeMedicineRepo(medicine)
	invoiceRepo := &fakeInvoiceRepo{duplicateTimes: 2}
	svc := newTestInvoiceService(invoiceRepo, medicineRepo)

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{MedicineID: &medicine.ID, Name: "Panadol", Quantity: 1, SalePrice: 50},
		},
	})

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Empty(t, invoiceRepo.invoices)
	// decremented stock is restored
	assert.Equal(t, 100, medicineRepo.medicines[medicine.ID].StockUnits)
}

func TestCreateInvoicePersistenceFailureRestoresStock(t *testing.T) {
	medicine := &entity.Medicine{
		ID:              uuid.New(),
		Name:            "Panadol",
		Slug:            "panadol",
		UnitsPerPackage: 10,
		StockUnits:      50,
		SalePrice:       50,
	}
	medicineRepo := newFakeMedicineRepo(medicine)
	svc := newTestInvoiceService(&fakeInvoiceRepo{failCreate: true}, medicineRepo)

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PatientName: "Ali Khan",
		SoldBy:      "staff@store.org",
		Lines: []SaleLineInput{
			{MedicineID: &medicine.ID, Name: "Panadol", Quantity: 3, SalePrice: 50},
		},
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperror.GetAppError(err).Code)
	assert.Equal(t, 50, medicineRepo.medicines[medicine.ID].StockUnits)
}

func TestListInvoicesReturnsFilteredRevenue(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{
		invoices: []*entity.Invoice{
			{ID: uuid.New(), InvoiceNumber: "INV-2025-AAAAAAAA", TotalRevenue: 100.10},
			{ID: uuid.New(), InvoiceNumber: "INV-2025-BBBBBBBB", TotalRevenue: 250.25},
		},
	}
	svc := newTestInvoiceService(invoiceRepo, newFakeMedicineRepo())

	out, err := svc.ListInvoices(context.Background(), &repository.InvoiceFilterParams{})

	require.NoError(t, err)
	assert.Len(t, out.Result.Items, 2)
	assert.Equal(t, int64(2), out.Result.Pagination.Total)
	assert.Equal(t, 350.35, out.TotalRevenue)
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc := newTestInvoiceService(&fakeInvoiceRepo{}, newFakeMedicineRepo())

	_, err := svc.GetInvoice(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
