// Package billing turns raw sale entries into priced invoice line
// items and invoice-level totals. All monetary results carry two
// decimals; rounding is half-up and happens only at the final step of
// each computation, never on intermediate per-unit prices.
package billing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	"github.com/shifacare/medstore-api/internal/domain/enum"
)

// WalkInPatient is stored when a sale has no patient name.
const WalkInPatient = "Walk-in Patient"

// SaleLine is one raw entry of a checkout batch, as submitted by the
// caller or loaded from a legacy record. SalePrice is always the price
// per package, regardless of sell type.
type SaleLine struct {
	MedicineID       *uuid.UUID
	Name             string
	Category         string
	Manufacturer     string
	Strength         string
	PackSize         string
	UnitsPerPackage  int // authoritative when > 0; else parsed from PackSize
	SellType         enum.SellType
	OriginalSellType enum.SellType // unit of sale the operator actually selected
	Quantity         float64
	SalePrice        float64
	Total            float64 // caller-precomputed; trusted verbatim when > 0
}

var unitCountPattern = regexp.MustCompile(`\d+`)

// ExtractUnitCount scans free-text pack-size like "10 tablets" for the
// first embedded integer. Missing or non-numeric text means one
// dispensing unit per package. Kept as a fallback for historical
// records that predate the numeric units_per_package field.
func ExtractUnitCount(packSize string) int {
	token := unitCountPattern.FindString(packSize)
	if token == "" {
		return 1
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// UnitCount returns how many dispensing units make one package of this
// line, preferring the catalog's numeric field over the pack-size text.
func (l SaleLine) UnitCount() int {
	if l.UnitsPerPackage > 0 {
		return l.UnitsPerPackage
	}
	return ExtractUnitCount(l.PackSize)
}

// EffectiveSellType resolves the unit of sale: the preserved original
// choice wins over the recorded one, and both default to packages.
func (l SaleLine) EffectiveSellType() enum.SellType {
	if l.OriginalSellType.Valid() {
		return l.OriginalSellType
	}
	return l.SellType.OrDefault()
}

// TotalSource says where a line total came from. Old records carry a
// precomputed total that must survive verbatim even if pricing rules
// have since changed; new records are priced here.
type TotalSource int

const (
	TotalPrecomputed TotalSource = iota
	TotalComputed
)

func (s TotalSource) String() string {
	if s == TotalPrecomputed {
		return "precomputed"
	}
	return "computed"
}

// ResolveTotal returns the line's monetary total and its source.
//
// A positive caller-supplied total is returned exactly as given. An
// otherwise computed total is salePrice x quantity for package sales,
// or (salePrice / unitCount) x quantity for unit sales, rounded
// half-up to two decimals at the end. Zero, negative or non-finite
// quantity/price yields 0 rather than an error; rejecting such lines
// is the caller's job and legacy data must keep loading.
func ResolveTotal(l SaleLine) (float64, TotalSource) {
	if l.Total > 0 && isFinite(l.Total) {
		return l.Total, TotalPrecomputed
	}

	if l.Quantity <= 0 || l.SalePrice <= 0 || !isFinite(l.Quantity) || !isFinite(l.SalePrice) {
		return 0, TotalComputed
	}

	var raw float64
	if l.EffectiveSellType() == enum.SellTypeUnits {
		raw = l.SalePrice / float64(l.UnitCount()) * l.Quantity
	} else {
		raw = l.SalePrice * l.Quantity
	}
	return Round2(raw), TotalComputed
}

// Normalize converts a raw sale line into a persisted invoice item
// with a trustworthy total and a remembered sell type.
func Normalize(l SaleLine) entity.InvoiceItem {
	total, _ := ResolveTotal(l)
	return entity.InvoiceItem{
		MedicineID:   l.MedicineID,
		Name:         l.Name,
		Category:     l.Category,
		Manufacturer: l.Manufacturer,
		Strength:     l.Strength,
		PackSize:     l.PackSize,
		SellType:     l.EffectiveSellType(),
		Quantity:     l.Quantity,
		SalePrice:    l.SalePrice,
		Total:        total,
	}
}

// SumTotals adds the already-rounded line totals and rounds once after
// summation. Listing endpoints must reuse this rule so displayed sums
// match stored totals.
func SumTotals(items []entity.InvoiceItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total
	}
	return Round2(sum)
}

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// PatientNameOrDefault substitutes the walk-in placeholder for blank
// or whitespace-only patient names.
func PatientNameOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return WalkInPatient
	}
	return name
}

// NewInvoiceNumber produces a readable identifier of the shape
// INV-<year>-<token>. The token is a random UUID prefix, so collisions
// are vanishingly rare; the store's unique index catches the rest and
// the aggregator regenerates once on conflict.
func NewInvoiceNumber(at time.Time) string {
	return fmt.Sprintf("INV-%d-%s", at.Year(), strings.ToUpper(uuid.New().String()[:8]))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
