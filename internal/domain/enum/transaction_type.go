package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransactionType is the direction of an account transaction.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = TransactionType(str)
	if !t.IsValid() {
		return fmt.Errorf("invalid transaction type %q", str)
	}
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = TransactionType(v)
	case []byte:
		*t = TransactionType(v)
	case nil:
		*t = ""
	default:
		return fmt.Errorf("cannot scan %T into TransactionType", value)
	}
	return nil
}
