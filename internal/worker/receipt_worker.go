package worker

// Builds the PDF receipt for a freshly paid order and, when the customer has
// an email on file, chains an email job with the file attached.

import (
	"context"
	"encoding/json"
	"fmt"

	"otica/internal/infra"
	"otica/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID  string `json:"sale_id"`
	OrderID string `json:"order_id"`
}

type ReceiptWorker struct {
	saleRepo     repository.SaleRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	dispatcher   *Dispatcher
	storagePath  string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	dispatcher *Dispatcher,
	storagePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		dispatcher:   dispatcher,
		storagePath:  storagePath,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil // malformed payloads never succeed on retry
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return nil
	}

	// The sale row carries the tenant; worker jobs have no request identity.
	saleRow, err := w.saleRepo.FindAny(ctx, saleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load sale: %w", err)
	}
	orgID := saleRow.OrganizationID

	order, err := w.orderRepo.FindByID(ctx, orgID, saleRow.OrderID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load order: %w", err)
	}
	customer, err := w.customerRepo.FindByID(ctx, orgID, order.CustomerID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load customer: %w", err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, saleRow, customer.FullName, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("order", order.OrderNumber).Str("path", pdfPath).Msg("receipt_worker: receipt generated")

	if customer.Email != nil && *customer.Email != "" {
		return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			ToEmail:    *customer.Email,
			Subject:    fmt.Sprintf("Your receipt for order %s", order.OrderNumber),
			Body:       fmt.Sprintf("Hi %s,\n\nyour order %s is paid. The receipt is attached.\n", customer.FullName, order.OrderNumber),
			AttachPath: pdfPath,
		})
	}
	return nil
}
