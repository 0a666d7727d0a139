package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// DonationKind distinguishes cash gifts from medicine donated in kind.
type DonationKind string

const (
	DonationKindCash     DonationKind = "cash"
	DonationKindMedicine DonationKind = "medicine"
)

// Valid reports whether the value is one of the known donation kinds.
func (k DonationKind) Valid() bool {
	return k == DonationKindCash || k == DonationKindMedicine
}

func (k *DonationKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = DonationKind(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

func (k DonationKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *DonationKind) Scan(value interface{}) error {
	if value == nil {
		*k = DonationKindCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*k = DonationKind(v)
	case []byte:
		*k = DonationKind(v)
	}
	return nil
}
