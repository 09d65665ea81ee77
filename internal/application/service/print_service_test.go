package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/printer"
	"go.uber.org/zap"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) Ping(context.Context) bool { return p.err == nil }

func TestPrintReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")
	out, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, "AJE-00001"))
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	p := &recordingPrinter{}
	svc := NewPrintService(p, "network", printer.Width58mm, env.receiptSvc, env.users, zap.NewNop())

	if err := svc.PrintReceipt(ctx, user.ID, out.Receipt.ID); err != nil {
		t.Fatalf("PrintReceipt: %v", err)
	}
	if len(p.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(p.jobs))
	}
	for _, want := range []string{"Acme Store", "AJE-00001", "3x Widget", "150.00", "Balance due:", "Asha"} {
		if !bytes.Contains(p.jobs[0], []byte(want)) {
			t.Errorf("ticket is missing %q", want)
		}
	}

	if err := svc.PrintReceipt(ctx, user.ID, uuid.New()); apperror.GetAppError(err).Code != http.StatusNotFound {
		t.Errorf("unknown receipt: got %v", err)
	}

	p.err = errors.New("connection refused")
	if err := svc.PrintReceipt(ctx, user.ID, out.Receipt.ID); !errors.Is(err, apperror.ErrPrintFailed) {
		t.Errorf("offline printer: got %v", err)
	}
	if st := svc.Status(ctx); !st.Configured || st.Connected {
		t.Errorf("status = %+v", st)
	}
}

func TestPrintReceiptWithoutPrinter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")
	out, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, "AJE-00001"))
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	none, err := printer.New(printer.Config{Type: "none"})
	if err != nil {
		t.Fatalf("printer.New: %v", err)
	}
	svc := NewPrintService(none, "none", printer.Width58mm, env.receiptSvc, env.users, zap.NewNop())

	if err := svc.PrintReceipt(ctx, user.ID, out.Receipt.ID); !errors.Is(err, apperror.ErrPrinterUnavailable) {
		t.Errorf("PrintReceipt = %v, want ErrPrinterUnavailable", err)
	}
	ticket, err := svc.RenderReceipt(ctx, user.ID, out.Receipt.ID)
	if err != nil || len(ticket) == 0 {
		t.Errorf("RenderReceipt = %d bytes, %v", len(ticket), err)
	}
	if svc.Status(ctx).Configured {
		t.Error("none must report unconfigured")
	}
}
