package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentType is the tender used for a receipt.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeOnline PaymentType = "online"
)

func (t PaymentType) String() string {
	return string(t)
}

func (t PaymentType) IsValid() bool {
	return t == PaymentTypeCash || t == PaymentTypeOnline
}

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = PaymentType(str)
	if !t.IsValid() {
		return fmt.Errorf("invalid payment type %q", str)
	}
	return nil
}

func (t PaymentType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *PaymentType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = PaymentType(v)
	case []byte:
		*t = PaymentType(v)
	case nil:
		*t = ""
	default:
		return fmt.Errorf("cannot scan %T into PaymentType", value)
	}
	return nil
}
