package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Medicine represents one catalog entry of the store's stock.
//
// PackSize is the historical free-text description ("10 tablets",
// "100ml bottle"); UnitsPerPackage is the authoritative numeric unit
// count used for pricing. Stock is tracked in dispensing units so that
// package and unit sales decrement the same counter.
type Medicine struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID      *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Slug            string         `gorm:"size:255;unique;not null" json:"slug"`
	GenericName     string         `gorm:"size:255" json:"generic_name"`
	Manufacturer    string         `gorm:"size:255" json:"manufacturer"`
	Strength        string         `gorm:"size:100" json:"strength"`
	PackSize        string         `gorm:"size:100" json:"pack_size"`
	UnitsPerPackage int            `gorm:"default:1" json:"units_per_package"`
	StockUnits      int            `gorm:"default:0" json:"stock_units"`
	StockAlert      int            `gorm:"default:0" json:"stock_alert"`
	PurchasePrice   float64        `gorm:"default:0" json:"purchase_price"`
	SalePrice       float64        `gorm:"default:0" json:"sale_price"` // per package
	ExpiryDate      *time.Time     `gorm:"type:date" json:"expiry_date,omitempty"`
	Notes           *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new medicine
func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Medicine model
func (Medicine) TableName() string {
	return "medicines"
}

// Category represents a medicine category (analgesics, antibiotics, ...)
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Medicines []Medicine `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
