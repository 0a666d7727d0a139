package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// SellType says whether a sale quantity counts whole packages or
// individual dispensing units.
type SellType string

const (
	SellTypePackages SellType = "packages"
	SellTypeUnits    SellType = "units"
)

// Valid reports whether the value is one of the known sell types.
func (s SellType) Valid() bool {
	return s == SellTypePackages || s == SellTypeUnits
}

// OrDefault returns the sell type, falling back to packages when the
// value is empty or unknown (legacy records).
func (s SellType) OrDefault() SellType {
	if s.Valid() {
		return s
	}
	return SellTypePackages
}

func (s *SellType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = SellType(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

func (s SellType) Value() (driver.Value, error) {
	return string(s.OrDefault()), nil
}

func (s *SellType) Scan(value interface{}) error {
	if value == nil {
		*s = SellTypePackages
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SellType(v)
	case []byte:
		*s = SellType(v)
	}
	return nil
}
