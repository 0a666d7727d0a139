package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice is the immutable record of one completed sale. It owns its
// line items; the API exposes no update or delete for invoices.
type Invoice struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string         `gorm:"size:100;uniqueIndex;not null" json:"invoice_number"`
	PatientName   string         `gorm:"size:255;not null" json:"patient_name"`
	PatientPhone  *string        `gorm:"size:50" json:"patient_phone,omitempty"`
	PatientAge    *int           `json:"patient_age,omitempty"`
	PatientGender *string        `gorm:"size:20" json:"patient_gender,omitempty"`
	TotalRevenue  float64        `gorm:"not null" json:"total_revenue"`
	SoldBy        string         `gorm:"size:255;not null" json:"sold_by"`
	TransactionID *string        `gorm:"size:100;index" json:"transaction_id,omitempty"`
	SoldAt        time.Time      `gorm:"not null;index" json:"sold_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one priced line of an invoice. Descriptive fields are
// copied from the catalog at sale time so the invoice stays readable
// even if the medicine is later edited or removed.
type InvoiceItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	MedicineID   *uuid.UUID     `gorm:"type:uuid;index" json:"medicine_id,omitempty"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Category     string         `gorm:"size:255" json:"category"`
	Manufacturer string         `gorm:"size:255" json:"manufacturer"`
	Strength     string         `gorm:"size:100" json:"strength"`
	PackSize     string         `gorm:"size:100" json:"pack_size"`
	SellType     enum.SellType  `gorm:"size:20;default:'packages'" json:"sell_type"`
	Quantity     float64        `gorm:"not null" json:"quantity"`
	SalePrice    float64        `gorm:"not null" json:"sale_price"` // per package
	Total        float64        `gorm:"not null" json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
