package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Donation records a gift to the charity store, either cash or
// medicine in kind. Medicine donations reference a catalog entry and
// a package quantity; receiving one adds the equivalent dispensing
// units to stock.
type Donation struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	DonorName    string            `gorm:"size:255;not null" json:"donor_name"`
	DonorContact *string           `gorm:"size:255" json:"donor_contact,omitempty"`
	Kind         enum.DonationKind `gorm:"size:20;not null" json:"kind"`
	Amount       float64           `gorm:"default:0" json:"amount"` // cash donations only
	MedicineID   *uuid.UUID        `gorm:"type:uuid;index" json:"medicine_id,omitempty"`
	Quantity     int               `gorm:"default:0" json:"quantity"` // packages, in-kind only
	Notes        *string           `gorm:"type:text" json:"notes,omitempty"`
	ReceivedAt   time.Time         `gorm:"not null;index" json:"received_at"`
	RecordedBy   string            `gorm:"size:255" json:"recorded_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

// BeforeCreate generates a UUID before creating a new donation
func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Donation model
func (Donation) TableName() string {
	return "donations"
}
