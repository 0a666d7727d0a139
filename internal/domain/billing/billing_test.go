package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
)

func TestExtractUnitCount(t *testing.T) {
	cases := []struct {
		packSize string
		want     int
	}{
		{"10 tablets", 10},
		{"Box of 20", 20},
		{"100ml bottle", 100},
		{"Standard", 1},
		{"", 1},
		{"0 pieces", 1},
		{"strip x12", 12},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExtractUnitCount(c.packSize), "packSize=%q", c.packSize)
	}
}

func TestUnitCountPrefersCatalogField(t *testing.T) {
	l := SaleLine{PackSize: "10 tablets", UnitsPerPackage: 30}
	assert.Equal(t, 30, l.UnitCount())

	l.UnitsPerPackage = 0
	assert.Equal(t, 10, l.UnitCount())
}

func TestResolveTotal_PackageMode(t *testing.T) {
	total, source := ResolveTotal(SaleLine{
		Name:      "Paracetamol",
		SellType:  enum.SellTypePackages,
		Quantity:  3,
		SalePrice: 50,
	})
	assert.Equal(t, TotalComputed, source)
	assert.Equal(t, 150.00, total)
}

func TestResolveTotal_UnitModeWithEmbeddedPackCount(t *testing.T) {
	// 100 per package of 10 -> 10.00 per unit -> 25 units = 250.00
	total, source := ResolveTotal(SaleLine{
		Name:      "Amoxicillin",
		PackSize:  "10 tablets",
		SellType:  enum.SellTypeUnits,
		Quantity:  25,
		SalePrice: 100,
	})
	assert.Equal(t, TotalComputed, source)
	assert.Equal(t, 250.00, total)
}

func TestResolveTotal_DefaultUnitCountMakesModesAgree(t *testing.T) {
	for _, packSize := range []string{"", "Standard"} {
		units, _ := ResolveTotal(SaleLine{
			PackSize: packSize, SellType: enum.SellTypeUnits, Quantity: 4, SalePrice: 25,
		})
		packages, _ := ResolveTotal(SaleLine{
			PackSize: packSize, SellType: enum.SellTypePackages, Quantity: 4, SalePrice: 25,
		})
		assert.Equal(t, packages, units, "packSize=%q", packSize)
		assert.Equal(t, 100.00, units)
	}
}

func TestResolveTotal_TrustsCallerTotalVerbatim(t *testing.T) {
	// Historical records keep their priced total even when the inputs
	// would compute something else entirely.
	total, source := ResolveTotal(SaleLine{
		SellType:  enum.SellTypePackages,
		Quantity:  3,
		SalePrice: 50,
		Total:     42.17,
	})
	assert.Equal(t, TotalPrecomputed, source)
	assert.Equal(t, 42.17, total)
}

func TestResolveTotal_LenientOnBadNumbers(t *testing.T) {
	cases := []SaleLine{
		{Quantity: 0, SalePrice: 50},
		{Quantity: -2, SalePrice: 50},
		{Quantity: 3, SalePrice: 0},
		{Quantity: math.NaN(), SalePrice: 50},
		{Quantity: 3, SalePrice: math.Inf(1)},
	}
	for i, l := range cases {
		total, _ := ResolveTotal(l)
		assert.Equal(t, 0.0, total, "case %d", i)
	}
}

func TestResolveTotal_NonFiniteCallerTotalRecomputes(t *testing.T) {
	total, source := ResolveTotal(SaleLine{
		SellType:  enum.SellTypePackages,
		Quantity:  3,
		SalePrice: 50,
		Total:     math.NaN(),
	})
	assert.Equal(t, TotalComputed, source)
	assert.Equal(t, 150.00, total)
}

func TestEffectiveSellType(t *testing.T) {
	assert.Equal(t, enum.SellTypePackages, SaleLine{}.EffectiveSellType())
	assert.Equal(t, enum.SellTypeUnits, SaleLine{SellType: enum.SellTypeUnits}.EffectiveSellType())
	// The operator's original choice wins over the recorded one.
	assert.Equal(t, enum.SellTypeUnits, SaleLine{
		SellType:         enum.SellTypePackages,
		OriginalSellType: enum.SellTypeUnits,
	}.EffectiveSellType())
}

func TestNormalizeDefaultsSellType(t *testing.T) {
	item := Normalize(SaleLine{Name: "ORS Sachet", Quantity: 2, SalePrice: 15})
	assert.Equal(t, enum.SellTypePackages, item.SellType)
	assert.Equal(t, 30.00, item.Total)
}

func TestSumTotals_RoundsAfterSummation(t *testing.T) {
	items := []entity.InvoiceItem{
		{Total: 100.00},
		{Total: 250.00},
		{Total: 33.33},
	}
	assert.Equal(t, 383.33, SumTotals(items))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(33.333))
	assert.Equal(t, 33.34, Round2(33.336))
	assert.Equal(t, 150.00, Round2(150.0))
	assert.Equal(t, 0.13, Round2(0.125))
}

func TestPatientNameOrDefault(t *testing.T) {
	assert.Equal(t, WalkInPatient, PatientNameOrDefault(""))
	assert.Equal(t, WalkInPatient, PatientNameOrDefault("   "))
	assert.Equal(t, "Amina Yusuf", PatientNameOrDefault("Amina Yusuf"))
}

func TestNewInvoiceNumber_ShapeAndUniqueness(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		no := NewInvoiceNumber(at)
		require.Regexp(t, `^INV-2025-[0-9A-F]{8}$`, no)
		_, dup := seen[no]
		require.False(t, dup, "duplicate invoice number %s", no)
		seen[no] = struct{}{}
	}
}
