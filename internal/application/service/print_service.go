package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/printer"
	"go.uber.org/zap"
)

// PrintService renders receipts as thermal printer tickets
type PrintService struct {
	printer     printer.Printer
	printerType string
	width       int
	receipts    *ReceiptService
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewPrintService creates a new print service. width is the ticket width in
// characters.
func NewPrintService(
	p printer.Printer,
	printerType string,
	width int,
	receipts *ReceiptService,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *PrintService {
	return &PrintService{
		printer:     p,
		printerType: printerType,
		width:       width,
		receipts:    receipts,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// Status reports whether a printer is configured and reachable
func (s *PrintService) Status(ctx context.Context) *PrinterStatus {
	configured := s.printerType != "" && s.printerType != "none"
	return &PrinterStatus{
		Configured: configured,
		Connected:  configured && s.printer.Ping(ctx),
		Type:       s.printerType,
	}
}

// RenderReceipt returns the ESC/POS ticket for one of the user's receipts
func (s *PrintService) RenderReceipt(ctx context.Context, userID, receiptID uuid.UUID) ([]byte, error) {
	receipt, err := s.receipts.GetReceipt(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return FormatReceipt(user, receipt, s.width), nil
}

// PrintReceipt sends the ticket to the configured printer
func (s *PrintService) PrintReceipt(ctx context.Context, userID, receiptID uuid.UUID) error {
	data, err := s.RenderReceipt(ctx, userID, receiptID)
	if err != nil {
		return err
	}
	if err := s.printer.Print(ctx, data); err != nil {
		if errors.Is(err, printer.ErrNotConfigured) {
			return apperror.ErrPrinterUnavailable
		}
		s.logger.Warn("print failed",
			zap.String("receipt_id", receiptID.String()),
			zap.String("printer", s.printerType),
			zap.Error(err))
		return apperror.ErrPrintFailed
	}
	return nil
}

// FormatReceipt lays out a receipt for a thermal printer.
func FormatReceipt(user *entity.User, r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	storeName := user.Name
	if user.StoreName != nil && *user.StoreName != "" {
		storeName = *user.StoreName
	}
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(storeName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if user.StoreAddress != nil {
		doc.Text(*user.StoreAddress)
	}
	if user.StorePhone != nil {
		phone := *user.StorePhone
		if user.StoreCountryCode != nil {
			phone = *user.StoreCountryCode + " " + phone
		}
		doc.Text(phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		Columns("Receipt:", r.ReceiptNumber).
		Columns("Date:", r.Date.Format(reportDateLayout)).
		Columns("Customer:", r.CustomerName)
	if r.CustomerContact != "" {
		contact := r.CustomerContact
		if r.CountryCode != "" {
			contact = r.CountryCode + " " + contact
		}
		doc.Columns("Contact:", contact)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.Columns(fmt.Sprintf("%dx %s", item.Quantity, item.Description), item.LineTotal().StringFixed(2))
		if item.Quantity > 1 {
			doc.Text("  @ " + item.Price.StringFixed(2) + " each")
		}
	}

	doc.Separator('-').
		SetBold(true).
		Columns("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false).
		Columns("Paid:", r.AmountPaid.StringFixed(2))
	if r.DueTotal.IsPositive() {
		doc.Columns("Balance due:", r.DueTotal.StringFixed(2))
	}
	doc.Columns("Payment:", paymentLabel(r))
	if r.Notes != nil && *r.Notes != "" {
		doc.Separator('-').Text(*r.Notes)
	}

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you for your business!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func paymentLabel(r *entity.Receipt) string {
	label := string(r.PaymentType)
	if r.PaymentType == enum.PaymentTypeOnline && r.PaymentDetails != nil {
		switch {
		case r.PaymentDetails.CardNumber != nil:
			label += " card " + *r.PaymentDetails.CardNumber
		case r.PaymentDetails.PhoneNumber != nil:
			label += " " + *r.PaymentDetails.PhoneNumber
		}
	}
	if r.PaymentStatus != enum.PaymentStatusFull {
		label += " (" + string(r.PaymentStatus) + ")"
	}
	return label
}
