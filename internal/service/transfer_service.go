package service

import (
	"context"
	"fmt"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"gorm.io/gorm"
)

// TransferService records transfer challans: filled cylinders that leave a
// warehouse for a customer without going through a sale. The stock decrement
// and the transfer row commit together; the customer ledger is untouched,
// which is what distinguishes a transfer from a sale.
type TransferService interface {
	Create(ctx context.Context, req dto.CreateTransferRequest) (*dto.LedgerEntryResponse, error)
}

type transferService struct {
	repo         repository.TransferRepository
	customerRepo repository.CustomerRepository
	stock        StockService
}

func NewTransferService(repo repository.TransferRepository, customerRepo repository.CustomerRepository, stock StockService) TransferService {
	return &transferService{repo: repo, customerRepo: customerRepo, stock: stock}
}

func (s *transferService) Create(ctx context.Context, req dto.CreateTransferRequest) (*dto.LedgerEntryResponse, error) {
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	variantID, err := parseID("variant_id", req.VariantID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := parseID("warehouse_id", req.WarehouseID)
	if err != nil {
		return nil, err
	}
	transferDate, err := parseDate("transfer_date", req.TransferDate)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, apierror.InvalidArgument("transfer quantity must be positive, got %d", req.Quantity)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", customerID)
	}
	if !customer.Active {
		return nil, apierror.InvalidOperation("customer %s is inactive", customer.Name)
	}

	var transfer *model.CylinderTransfer
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.stock.DecrementFilledTx(tx, warehouseID, variantID, req.Quantity); err != nil {
			return err
		}
		num, err := s.repo.NextReferenceNumber(tx)
		if err != nil {
			return err
		}
		transfer = &model.CylinderTransfer{
			ReferenceNumber: fmt.Sprintf("TRF-%06d", num),
			CustomerID:      customerID,
			VariantID:       variantID,
			WarehouseID:     warehouseID,
			Quantity:        req.Quantity,
			TransferDate:    transferDate,
			Note:            req.Note,
		}
		return s.repo.CreateTx(tx, transfer)
	})
	if txErr != nil {
		return nil, txErr
	}

	transfer.Customer = customer
	resp := transferToResponse(transfer)
	return &resp, nil
}
