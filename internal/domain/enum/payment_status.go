package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentStatus says how much of a receipt was settled at the point of sale.
type PaymentStatus string

const (
	PaymentStatusFull    PaymentStatus = "full"
	PaymentStatusAdvance PaymentStatus = "advance"
	PaymentStatusDue     PaymentStatus = "due"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusFull, PaymentStatusAdvance, PaymentStatusDue:
		return true
	}
	return false
}

// LeavesDue reports whether a receipt with this status can create a due record.
func (s PaymentStatus) LeavesDue() bool {
	return s == PaymentStatusAdvance || s == PaymentStatusDue
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = PaymentStatus(str)
	if !s.IsValid() {
		return fmt.Errorf("invalid payment status %q", str)
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	case nil:
		*s = ""
	default:
		return fmt.Errorf("cannot scan %T into PaymentStatus", value)
	}
	return nil
}
