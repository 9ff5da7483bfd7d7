package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const saleMaxAttempts = 3

// SaleService registers cylinder sales. One sale is one transaction: the sale
// record, a filled-stock decrement per line, and one ledger entry per line all
// commit or roll back together. The transaction is retried a bounded number of
// times on Postgres serialization and deadlock errors before giving up with a
// conflict.
type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id int64) (*dto.SaleResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	customerRepo repository.CustomerRepository
	stock        StockService
	ledger       LedgerService
}

func NewSaleService(
	repo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	stock StockService,
	ledger LedgerService,
) SaleService {
	return &saleService{
		repo:         repo,
		customerRepo: customerRepo,
		stock:        stock,
		ledger:       ledger,
	}
}

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := parseID("warehouse_id", req.WarehouseID)
	if err != nil {
		return nil, err
	}
	saleDate, err := parseDate("sale_date", req.SaleDate)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, apierror.InvalidArgument("a sale needs at least one item")
	}
	if req.AmountReceived.IsNegative() {
		return nil, apierror.InvalidArgument("amount_received cannot be negative: %s", req.AmountReceived.StringFixed(2))
	}
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if seen[item.VariantID] {
			return nil, apierror.InvalidArgument("variant %s appears on more than one sale line", item.VariantID)
		}
		seen[item.VariantID] = true
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", customerID)
	}
	if !customer.Active {
		return nil, apierror.InvalidOperation("customer %s is inactive and cannot be sold to", customer.Name)
	}

	var sale *model.Sale
	var ledgerEntries []model.LedgerEntry
	for attempt := 1; ; attempt++ {
		sale, ledgerEntries, err = s.createSaleOnce(ctx, req, customerID, warehouseID, saleDate)
		if err == nil {
			break
		}
		if attempt >= saleMaxAttempts || !isRetryableTxError(err) {
			if isRetryableTxError(err) {
				log.Warn().Err(err).
					Str("customer_id", req.CustomerID).
					Int("attempts", attempt).
					Msg("sale transaction kept conflicting, giving up")
				return nil, apierror.Conflict("the sale could not be registered due to concurrent activity, please retry")
			}
			return nil, err
		}
		log.Debug().Err(err).Int("attempt", attempt).Msg("retrying sale transaction")
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}

	resp := s.saleToResponse(sale, ledgerEntries)
	return resp, nil
}

func (s *saleService) createSaleOnce(ctx context.Context, req dto.CreateSaleRequest, customerID, warehouseID uuid.UUID, saleDate time.Time) (*model.Sale, []model.LedgerEntry, error) {
	var sale *model.Sale
	var entries []model.LedgerEntry

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		items := make([]model.SaleItem, 0, len(req.Items))
		total := decimal.Zero
		for _, line := range req.Items {
			variantID, err := parseID("variant_id", line.VariantID)
			if err != nil {
				return err
			}
			if line.Quantity <= 0 {
				return apierror.InvalidArgument("sale quantity must be positive for variant %s", line.VariantID)
			}
			finalPrice := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Sub(line.Discount)
			if finalPrice.IsNegative() {
				finalPrice = decimal.Zero
			}
			finalPrice = finalPrice.Round(2)
			total = total.Add(finalPrice)
			items = append(items, model.SaleItem{
				VariantID:  variantID,
				Quantity:   line.Quantity,
				EmptyIn:    line.EmptyIn,
				UnitPrice:  line.UnitPrice,
				Discount:   line.Discount,
				FinalPrice: finalPrice,
			})
		}

		num, err := s.repo.NextReferenceNumber(tx)
		if err != nil {
			return err
		}
		sale = &model.Sale{
			ReferenceNumber: fmt.Sprintf("SAL-%06d", num),
			CustomerID:      customerID,
			WarehouseID:     warehouseID,
			SaleDate:        saleDate,
			TotalAmount:     total,
			AmountReceived:  req.AmountReceived,
			Note:            req.Note,
			Items:           items,
		}
		if req.Actor != "" {
			sale.CreatedBy = &req.Actor
		}
		if err := s.repo.CreateTx(tx, sale); err != nil {
			return err
		}

		entries = entries[:0]
		for i, item := range sale.Items {
			if err := s.stock.DecrementFilledTx(tx, warehouseID, item.VariantID, item.Quantity); err != nil {
				return err
			}
			if item.EmptyIn > 0 {
				if err := s.stock.IncrementEmptyTx(tx, warehouseID, item.VariantID, item.EmptyIn); err != nil {
					return err
				}
			}

			lineTotal := item.FinalPrice
			entryReq := dto.CreateLedgerEntryRequest{
				CustomerID:      req.CustomerID,
				WarehouseID:     &req.WarehouseID,
				VariantID:       item.VariantID.String(),
				TransactionDate: req.SaleDate,
				RefType:         string(model.RefTypeSale),
				RefID:           &sale.ID,
				FilledOut:       item.Quantity,
				EmptyIn:         item.EmptyIn,
				TotalAmount:     &lineTotal,
				Note:            req.Note,
				Actor:           req.Actor,
			}
			// The full received amount settles against the last line, after
			// every line's total has been rolled into the running due.
			if i == len(sale.Items)-1 {
				received := req.AmountReceived
				entryReq.AmountReceived = &received
				entryReq.PaymentModeID = req.PaymentModeID
				entryReq.BankAccountID = req.BankAccountID
			}
			entry, err := s.ledger.CreateLedgerEntryTx(ctx, tx, entryReq)
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sale, entries, nil
}

func (s *saleService) GetSale(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("sale %d not found", id)
	}
	return s.saleToResponse(sale, nil), nil
}

func (s *saleService) saleToResponse(sale *model.Sale, entries []model.LedgerEntry) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:              sale.ID,
		ReferenceNumber: sale.ReferenceNumber,
		CustomerID:      sale.CustomerID.String(),
		WarehouseID:     sale.WarehouseID.String(),
		SaleDate:        sale.SaleDate.Format(dateLayout),
		TotalAmount:     sale.TotalAmount,
		AmountReceived:  sale.AmountReceived,
		Items:           make([]dto.SaleItemResponse, 0, len(sale.Items)),
		LedgerEntries:   entriesToResponses(entries),
		CreatedAt:       sale.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range sale.Items {
		ir := dto.SaleItemResponse{
			VariantID:  item.VariantID.String(),
			Quantity:   item.Quantity,
			EmptyIn:    item.EmptyIn,
			UnitPrice:  item.UnitPrice,
			Discount:   item.Discount,
			FinalPrice: item.FinalPrice,
		}
		if item.Variant != nil {
			ir.Variant = item.Variant.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}

// isRetryableTxError recognizes Postgres serialization failures (40001) and
// deadlocks (40P01), the two outcomes of overlapping customer locks worth a
// second attempt.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
