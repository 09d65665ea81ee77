package enum

import (
	"encoding/json"
	"testing"
)

func TestPaymentStatusUnmarshalRejectsUnknown(t *testing.T) {
	var s PaymentStatus
	if err := json.Unmarshal([]byte(`"advance"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != PaymentStatusAdvance {
		t.Fatalf("got %q", s)
	}
	if err := json.Unmarshal([]byte(`"partial"`), &s); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestPaymentStatusLeavesDue(t *testing.T) {
	cases := map[PaymentStatus]bool{
		PaymentStatusFull:    false,
		PaymentStatusAdvance: true,
		PaymentStatusDue:     true,
	}
	for status, want := range cases {
		if got := status.LeavesDue(); got != want {
			t.Errorf("%s.LeavesDue() = %v, want %v", status, got, want)
		}
	}
}

func TestTransactionTypeScan(t *testing.T) {
	var tt TransactionType
	if err := tt.Scan([]byte("debit")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if tt != TransactionDebit {
		t.Fatalf("got %q", tt)
	}
	if err := tt.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}
