package service

import (
	"context"
	"sort"
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerQueryService is the read side of the ledger: latest balances and
// dues (single, per-variant and batched), the paginated listings, and the
// merged movements view that folds display-only transfers in between ledger
// rows.
type LedgerQueryService interface {
	GetEntry(ctx context.Context, id int64) (*dto.LedgerEntryResponse, error)
	GetVariantBalance(ctx context.Context, customerID, variantID string) (*dto.VariantBalanceResponse, error)
	GetCustomerBalances(ctx context.Context, customerID string) ([]dto.VariantBalanceResponse, error)
	GetCustomerDue(ctx context.Context, customerID string) (*dto.CustomerDueResponse, error)
	GetPendingReturns(ctx context.Context, customerID string) (*dto.PendingReturnResponse, error)
	BatchLookup(ctx context.Context, req dto.BatchLookupRequest) (*dto.BatchLookupResponse, error)
	ListPayments(ctx context.Context, filter dto.PaymentFilter) (*dto.LedgerListResponse, error)
	ListEmptyReturns(ctx context.Context, filter dto.EmptyReturnFilter) (*dto.LedgerListResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.LedgerListResponse, error)
}

type ledgerQueryService struct {
	repo         repository.LedgerRepository
	transferRepo repository.TransferRepository
}

func NewLedgerQueryService(repo repository.LedgerRepository, transferRepo repository.TransferRepository) LedgerQueryService {
	return &ledgerQueryService{repo: repo, transferRepo: transferRepo}
}

func (s *ledgerQueryService) GetEntry(ctx context.Context, id int64) (*dto.LedgerEntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("ledger entry %d not found", id)
	}
	resp := entryToResponse(entry)
	return &resp, nil
}

// GetVariantBalance reads the latest entry of the (customer, variant) chain.
// An empty chain is a zero balance, not an error.
func (s *ledgerQueryService) GetVariantBalance(ctx context.Context, customerID, variantID string) (*dto.VariantBalanceResponse, error) {
	cid, err := parseID("customer_id", customerID)
	if err != nil {
		return nil, err
	}
	vid, err := parseID("variant_id", variantID)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.LatestForVariant(ctx, cid, vid)
	if err != nil {
		return nil, err
	}
	resp := &dto.VariantBalanceResponse{
		CustomerID: customerID,
		VariantID:  variantID,
	}
	if latest != nil {
		resp.Balance = latest.Balance
	}
	return resp, nil
}

func (s *ledgerQueryService) GetCustomerBalances(ctx context.Context, customerID string) ([]dto.VariantBalanceResponse, error) {
	cid, err := parseID("customer_id", customerID)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestPerVariant(ctx, cid)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariantBalanceResponse, 0, len(latest))
	for i := range latest {
		out = append(out, variantBalanceOf(&latest[i]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantName < out[j].VariantName })
	return out, nil
}

func (s *ledgerQueryService) GetCustomerDue(ctx context.Context, customerID string) (*dto.CustomerDueResponse, error) {
	cid, err := parseID("customer_id", customerID)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestForCustomer(ctx, cid)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerDueResponse{CustomerID: customerID, DueAmount: decimal.Zero}
	if latest != nil {
		resp.DueAmount = latest.DueAmount
	}
	return resp, nil
}

// GetPendingReturns sums the customer's positive per-variant balances — the
// cylinders the agency is still owed back.
func (s *ledgerQueryService) GetPendingReturns(ctx context.Context, customerID string) (*dto.PendingReturnResponse, error) {
	balances, err := s.GetCustomerBalances(ctx, customerID)
	if err != nil {
		return nil, err
	}
	resp := &dto.PendingReturnResponse{
		CustomerID: customerID,
		ByVariant:  make([]dto.VariantBalanceResponse, 0, len(balances)),
	}
	for _, b := range balances {
		if b.Balance <= 0 {
			continue
		}
		resp.Total += b.Balance
		resp.ByVariant = append(resp.ByVariant, b)
	}
	return resp, nil
}

func (s *ledgerQueryService) BatchLookup(ctx context.Context, req dto.BatchLookupRequest) (*dto.BatchLookupResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.CustomerIDs))
	for _, raw := range req.CustomerIDs {
		id, err := parseID("customer_ids", raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	resp := &dto.BatchLookupResponse{
		Dues:     make(map[string]decimal.Decimal, len(ids)),
		Balances: make(map[string][]dto.VariantBalanceResponse, len(ids)),
	}
	// Customers with no entries still get explicit zero rows.
	for _, id := range ids {
		resp.Dues[id.String()] = decimal.Zero
		resp.Balances[id.String()] = []dto.VariantBalanceResponse{}
	}

	dueRows, err := s.repo.BatchLatestPerCustomer(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range dueRows {
		resp.Dues[dueRows[i].CustomerID.String()] = dueRows[i].DueAmount
	}

	balanceRows, err := s.repo.BatchLatestPerVariant(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range balanceRows {
		key := balanceRows[i].CustomerID.String()
		resp.Balances[key] = append(resp.Balances[key], variantBalanceOf(&balanceRows[i]))
	}
	return resp, nil
}

func (s *ledgerQueryService) ListPayments(ctx context.Context, filter dto.PaymentFilter) (*dto.LedgerListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	entries, total, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerListResponse{
		Data:  entriesToResponses(entries),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ledgerQueryService) ListEmptyReturns(ctx context.Context, filter dto.EmptyReturnFilter) (*dto.LedgerListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	entries, total, err := s.repo.ListEmptyReturns(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerListResponse{
		Data:  entriesToResponses(entries),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ListMovements pages over ledger entries merged with transfer rows. Both
// sources are fetched up to the end of the requested page, merged newest
// first, and the page window is cut from the combined sequence.
func (s *ledgerQueryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.LedgerListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	fetch := filter.Page * filter.Limit

	entries, total, err := s.repo.ListMovements(ctx, filter, fetch)
	if err != nil {
		return nil, err
	}
	merged := entriesToResponses(entries)

	// A ref_type filter on anything but TRANSFER excludes transfers; the
	// transfer table has no ledger ref_type to match.
	includeTransfers := filter.IncludeTransfers &&
		(filter.RefType == "" || filter.RefType == string(model.RefTypeTransfer))
	if includeTransfers {
		transfers, transferTotal, err := s.transferRepo.List(ctx, filter, fetch)
		if err != nil {
			return nil, err
		}
		total += transferTotal
		for i := range transfers {
			merged = append(merged, transferToResponse(&transfers[i]))
		}
		sort.SliceStable(merged, func(i, j int) bool {
			if merged[i].TransactionDate == merged[j].TransactionDate {
				return merged[i].CreatedAt > merged[j].CreatedAt
			}
			return merged[i].TransactionDate > merged[j].TransactionDate
		})
	}

	start := (filter.Page - 1) * filter.Limit
	if start > len(merged) {
		start = len(merged)
	}
	end := start + filter.Limit
	if end > len(merged) {
		end = len(merged)
	}
	return &dto.LedgerListResponse{
		Data:  merged[start:end],
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func variantBalanceOf(e *model.LedgerEntry) dto.VariantBalanceResponse {
	resp := dto.VariantBalanceResponse{
		CustomerID: e.CustomerID.String(),
		Balance:    e.Balance,
	}
	if e.VariantID != nil {
		resp.VariantID = e.VariantID.String()
	}
	if e.Variant != nil {
		resp.VariantName = e.Variant.Name
	}
	return resp
}

// transferToResponse synthesizes a display-only TRANSFER row. Transfers carry
// no balance, amounts or due; the zero values make that explicit.
func transferToResponse(t *model.CylinderTransfer) dto.LedgerEntryResponse {
	vid := t.VariantID.String()
	wid := t.WarehouseID.String()
	ref := t.ReferenceNumber
	resp := dto.LedgerEntryResponse{
		ID:                   t.ID,
		CustomerID:           t.CustomerID.String(),
		VariantID:            &vid,
		WarehouseID:          &wid,
		TransactionDate:      t.TransferDate.Format(dateLayout),
		RefType:              string(model.RefTypeTransfer),
		FilledOut:            t.Quantity,
		TotalAmount:          decimal.Zero,
		AmountReceived:       decimal.Zero,
		DueAmount:            decimal.Zero,
		TransactionReference: &ref,
		Note:                 t.Note,
		CreatedAt:            t.CreatedAt.Format(time.RFC3339),
	}
	if t.Customer != nil {
		resp.CustomerName = t.Customer.Name
	}
	if t.Variant != nil {
		resp.VariantName = t.Variant.Name
	}
	return resp
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
