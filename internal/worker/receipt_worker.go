package worker

// receipt_worker.go
// Generates a PDF receipt for a recorded payment and emails it to the
// customer. SMTP calls go through the circuit breaker; jobs that keep failing
// land in the dead letter queue instead of looping forever.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const receiptMaxAttempts = 3

// ReceiptJobPayload is the job envelope sent to QueueReceipts.
type ReceiptJobPayload struct {
	LedgerID      int64  `json:"ledger_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Amount        string `json:"amount"`
	Reference     string `json:"reference"`
	Date          string `json:"date"`
}

// ReceiptWorker processes receipt jobs from QueueReceipts.
type ReceiptWorker struct {
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	agencyName  string
	storagePath string
}

func NewReceiptWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, agencyName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		mailer:      mailer,
		cb:          cb,
		agencyName:  agencyName,
		storagePath: storagePath,
	}
}

// Process generates the PDF and emails it. The send is attempted a bounded
// number of times through the circuit breaker; exhausted jobs move to the DLQ
// with the payload intact for manual replay.
func (w *ReceiptWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	if payload.CustomerEmail == "" {
		log.Warn().Int64("ledger_id", payload.LedgerID).Msg("receipt_worker: empty customer_email, skipping")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(w.agencyName, infra.PaymentReceipt{
		Reference:    payload.Reference,
		CustomerName: payload.CustomerName,
		Amount:       payload.Amount,
		Date:         payload.Date,
	}, w.storagePath)
	if err != nil {
		log.Error().Err(err).Int64("ledger_id", payload.LedgerID).Msg("receipt_worker: PDF generation failed")
		SendToDLQ(ctx, rdb, QueueReceipts, "receipt", raw, fmt.Sprintf("pdf generation: %s", err), 0)
		return
	}

	subject := fmt.Sprintf("Payment receipt %s", payload.Reference)
	body := fmt.Sprintf("Dear %s,\n\nWe have received your payment of Rs %s on %s.\nYour receipt is attached.\n\n%s",
		payload.CustomerName, payload.Amount, payload.Date, w.agencyName)

	var lastErr error
	for attempt := 1; attempt <= receiptMaxAttempts; attempt++ {
		lastErr = w.cb.Execute(func() error {
			return w.mailer.SendReceipt(payload.CustomerEmail, subject, body, pdfPath)
		})
		if lastErr == nil {
			log.Info().
				Str("to", payload.CustomerEmail).
				Str("reference", payload.Reference).
				Msg("receipt_worker: receipt sent")
			return
		}
		if lastErr == infra.ErrCircuitOpen {
			// No point burning the remaining attempts against an open breaker.
			break
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	log.Error().Err(lastErr).
		Str("to", payload.CustomerEmail).
		Int64("ledger_id", payload.LedgerID).
		Msg("receipt_worker: giving up, moving to DLQ")
	SendToDLQ(ctx, rdb, QueueReceipts, "receipt", raw, lastErr.Error(), receiptMaxAttempts)
}
