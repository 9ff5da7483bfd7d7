package service

// stubs_test.go — in-memory repository stubs shared by the service tests.
// The stubs accept a nil *gorm.DB because runTx calls fn(nil) when no
// database is wired, so the full transactional flows run without Postgres.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Ledger repository ─────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	seq       int64
	returnSeq int64
	entries   []*model.LedgerEntry
}

func newStubLedgerRepo() *stubLedgerRepo { return &stubLedgerRepo{} }

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

// seed inserts a pre-built entry, assigning the next id.
func (r *stubLedgerRepo) seed(e model.LedgerEntry) *model.LedgerEntry {
	r.seq++
	e.ID = r.seq
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	stored := e
	r.entries = append(r.entries, &stored)
	return &stored
}

func (r *stubLedgerRepo) get(id int64) *model.LedgerEntry {
	for _, e := range r.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.LedgerEntry) error {
	r.seq++
	e.ID = r.seq
	e.CreatedAt = time.Now()
	stored := *e
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *stubLedgerRepo) SaveTx(_ *gorm.DB, e *model.LedgerEntry) error {
	stored := r.get(e.ID)
	if stored == nil {
		return errors.New("ledger entry not found")
	}
	*stored = *e
	return nil
}

func (r *stubLedgerRepo) FindByID(_ context.Context, id int64) (*model.LedgerEntry, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubLedgerRepo) FindByIDTx(_ *gorm.DB, id int64) (*model.LedgerEntry, error) {
	stored := r.get(id)
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	found := *stored
	return &found, nil
}

func (r *stubLedgerRepo) latestWhere(match func(*model.LedgerEntry) bool) *model.LedgerEntry {
	var best *model.LedgerEntry
	for _, e := range r.entries {
		if match(e) && (best == nil || e.ID > best.ID) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}

func (r *stubLedgerRepo) LatestForVariantLockedTx(_ *gorm.DB, customerID, variantID uuid.UUID) (*model.LedgerEntry, error) {
	return r.latestWhere(func(e *model.LedgerEntry) bool {
		return e.CustomerID == customerID && e.VariantID != nil && *e.VariantID == variantID
	}), nil
}

func (r *stubLedgerRepo) LatestForCustomerLockedTx(_ *gorm.DB, customerID uuid.UUID) (*model.LedgerEntry, error) {
	return r.latestWhere(func(e *model.LedgerEntry) bool {
		return e.CustomerID == customerID
	}), nil
}

func (r *stubLedgerRepo) SaleEntryExistsLockedTx(_ *gorm.DB, customerID, variantID uuid.UUID, refID int64) (bool, error) {
	for _, e := range r.entries {
		if e.CustomerID == customerID && e.VariantID != nil && *e.VariantID == variantID &&
			e.RefType == model.RefTypeSale && e.RefID != nil && *e.RefID == refID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLedgerRepo) chainWhere(match func(*model.LedgerEntry) bool) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if match(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubLedgerRepo) VariantChainTx(_ *gorm.DB, customerID, variantID uuid.UUID) ([]model.LedgerEntry, error) {
	return r.chainWhere(func(e *model.LedgerEntry) bool {
		return e.CustomerID == customerID && e.VariantID != nil && *e.VariantID == variantID
	}), nil
}

func (r *stubLedgerRepo) CustomerChainTx(_ *gorm.DB, customerID uuid.UUID) ([]model.LedgerEntry, error) {
	return r.chainWhere(func(e *model.LedgerEntry) bool {
		return e.CustomerID == customerID
	}), nil
}

func (r *stubLedgerRepo) UpdateBalanceTx(_ *gorm.DB, id int64, balance int, updatedBy *string) error {
	stored := r.get(id)
	if stored == nil {
		return errors.New("ledger entry not found")
	}
	stored.Balance = balance
	if updatedBy != nil {
		stored.UpdatedBy = updatedBy
	}
	return nil
}

func (r *stubLedgerRepo) UpdateDueTx(_ *gorm.DB, id int64, due decimal.Decimal, updatedBy *string) error {
	stored := r.get(id)
	if stored == nil {
		return errors.New("ledger entry not found")
	}
	stored.DueAmount = due
	if updatedBy != nil {
		stored.UpdatedBy = updatedBy
	}
	return nil
}

func (r *stubLedgerRepo) NextReturnNumber(_ *gorm.DB) (int64, error) {
	r.returnSeq++
	return r.returnSeq, nil
}

func (r *stubLedgerRepo) AllTx(_ *gorm.DB) ([]model.LedgerEntry, error) {
	return r.chainWhere(func(*model.LedgerEntry) bool { return true }), nil
}

func (r *stubLedgerRepo) All(_ context.Context) ([]model.LedgerEntry, error) {
	return r.AllTx(nil)
}

func (r *stubLedgerRepo) LatestForCustomer(_ context.Context, customerID uuid.UUID) (*model.LedgerEntry, error) {
	return r.LatestForCustomerLockedTx(nil, customerID)
}

func (r *stubLedgerRepo) LatestForVariant(_ context.Context, customerID, variantID uuid.UUID) (*model.LedgerEntry, error) {
	return r.LatestForVariantLockedTx(nil, customerID, variantID)
}

func (r *stubLedgerRepo) LatestPerVariant(_ context.Context, customerID uuid.UUID) ([]model.LedgerEntry, error) {
	return r.latestPerVariant([]uuid.UUID{customerID})
}

func (r *stubLedgerRepo) latestPerVariant(customerIDs []uuid.UUID) ([]model.LedgerEntry, error) {
	type key struct {
		customer uuid.UUID
		variant  uuid.UUID
	}
	latest := make(map[key]*model.LedgerEntry)
	for _, e := range r.entries {
		if e.VariantID == nil {
			continue
		}
		for _, cid := range customerIDs {
			if e.CustomerID != cid {
				continue
			}
			k := key{customer: cid, variant: *e.VariantID}
			if cur, ok := latest[k]; !ok || e.ID > cur.ID {
				latest[k] = e
			}
		}
	}
	var out []model.LedgerEntry
	for _, e := range latest {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubLedgerRepo) BatchLatestPerCustomer(_ context.Context, customerIDs []uuid.UUID) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, cid := range customerIDs {
		if latest := r.latestWhere(func(e *model.LedgerEntry) bool { return e.CustomerID == cid }); latest != nil {
			out = append(out, *latest)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) BatchLatestPerVariant(_ context.Context, customerIDs []uuid.UUID) ([]model.LedgerEntry, error) {
	return r.latestPerVariant(customerIDs)
}

func (r *stubLedgerRepo) ListPayments(_ context.Context, filter dto.PaymentFilter) ([]model.LedgerEntry, int64, error) {
	matched := r.listFiltered(filter.CustomerID, "", string(model.RefTypePayment), filter.From, filter.To)
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *stubLedgerRepo) ListEmptyReturns(_ context.Context, filter dto.EmptyReturnFilter) ([]model.LedgerEntry, int64, error) {
	matched := r.listFiltered(filter.CustomerID, filter.VariantID, string(model.RefTypeEmptyReturn), filter.From, filter.To)
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *stubLedgerRepo) ListMovements(_ context.Context, filter dto.MovementFilter, fetch int) ([]model.LedgerEntry, int64, error) {
	matched := r.listFiltered(filter.CustomerID, filter.VariantID, filter.RefType, filter.From, filter.To)
	if fetch < len(matched) {
		matched = matched[:fetch]
	}
	return matched, int64(len(matched)), nil
}

// listFiltered matches on string-form filters and returns newest first.
func (r *stubLedgerRepo) listFiltered(customerID, variantID, refType, from, to string) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if customerID != "" && e.CustomerID.String() != customerID {
			continue
		}
		if variantID != "" && (e.VariantID == nil || e.VariantID.String() != variantID) {
			continue
		}
		if refType != "" && string(e.RefType) != refType {
			continue
		}
		date := e.TransactionDate.Format("2006-01-02")
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return out
}

func paginate(entries []model.LedgerEntry, page, limit int) []model.LedgerEntry {
	start := (page - 1) * limit
	if start > len(entries) {
		start = len(entries)
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// ── Customer repository ───────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	phoneSeq  int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Active = false
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Catalog repositories ──────────────────────────────────────────────────────

type stubVariantRepo struct {
	variants map[uuid.UUID]*model.CylinderVariant
}

func newStubVariantRepo() *stubVariantRepo {
	return &stubVariantRepo{variants: make(map[uuid.UUID]*model.CylinderVariant)}
}

func (r *stubVariantRepo) Create(_ context.Context, v *model.CylinderVariant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variants[v.ID] = v
	return nil
}

func (r *stubVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CylinderVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVariantRepo) List(_ context.Context) ([]model.CylinderVariant, error) {
	var out []model.CylinderVariant
	for _, v := range r.variants {
		out = append(out, *v)
	}
	return out, nil
}

var _ repository.VariantRepository = (*stubVariantRepo)(nil)

type stubWarehouseRepo struct {
	warehouses map[uuid.UUID]*model.Warehouse
}

func newStubWarehouseRepo() *stubWarehouseRepo {
	return &stubWarehouseRepo{warehouses: make(map[uuid.UUID]*model.Warehouse)}
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWarehouseRepo) List(_ context.Context) ([]model.Warehouse, error) {
	var out []model.Warehouse
	for _, w := range r.warehouses {
		out = append(out, *w)
	}
	return out, nil
}

var _ repository.WarehouseRepository = (*stubWarehouseRepo)(nil)

type stubModeRepo struct {
	modes map[uuid.UUID]*model.PaymentMode
}

func newStubModeRepo() *stubModeRepo {
	return &stubModeRepo{modes: make(map[uuid.UUID]*model.PaymentMode)}
}

func (r *stubModeRepo) Create(_ context.Context, m *model.PaymentMode) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.modes[m.ID] = m
	return nil
}

func (r *stubModeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PaymentMode, error) {
	m, ok := r.modes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubModeRepo) List(_ context.Context) ([]model.PaymentMode, error) {
	var out []model.PaymentMode
	for _, m := range r.modes {
		out = append(out, *m)
	}
	return out, nil
}

var _ repository.PaymentModeRepository = (*stubModeRepo)(nil)

// ── Sale repository ───────────────────────────────────────────────────────────

type stubSaleRepo struct {
	seq    int64
	refSeq int64
	sales  map[int64]*model.Sale
	// refErrs is popped on each NextReferenceNumber call, injecting
	// transaction failures for the retry tests.
	refErrs []error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[int64]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.seq++
	s.ID = r.seq
	s.CreatedAt = time.Now()
	for i := range s.Items {
		s.Items[i].ID = int64(i + 1)
		s.Items[i].SaleID = s.ID
	}
	stored := *s
	stored.Items = append([]model.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &stored
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id int64) (*model.Sale, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id int64) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *s
	found.Items = append([]model.SaleItem(nil), s.Items...)
	return &found, nil
}

func (r *stubSaleRepo) FindItemTx(_ *gorm.DB, saleID int64, variantID uuid.UUID) (*model.SaleItem, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, nil
	}
	for i := range s.Items {
		if s.Items[i].VariantID == variantID {
			item := s.Items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (r *stubSaleRepo) UpdateItemTx(_ *gorm.DB, item *model.SaleItem) error {
	s, ok := r.sales[item.SaleID]
	if !ok {
		return errors.New("sale not found")
	}
	for i := range s.Items {
		if s.Items[i].ID == item.ID {
			s.Items[i] = *item
			return nil
		}
	}
	return errors.New("sale item not found")
}

func (r *stubSaleRepo) UpdateTotalsTx(_ *gorm.DB, id int64, total, received decimal.Decimal, updatedBy *string) error {
	s, ok := r.sales[id]
	if !ok {
		return errors.New("sale not found")
	}
	s.TotalAmount = total
	s.AmountReceived = received
	if updatedBy != nil {
		s.UpdatedBy = updatedBy
	}
	return nil
}

func (r *stubSaleRepo) NextReferenceNumber(_ *gorm.DB) (int64, error) {
	if len(r.refErrs) > 0 {
		err := r.refErrs[0]
		r.refErrs = r.refErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	r.refSeq++
	return r.refSeq, nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Stock repository ──────────────────────────────────────────────────────────

type stockKey struct {
	warehouse uuid.UUID
	variant   uuid.UUID
}

type stubStockRepo struct {
	cells map[stockKey]*model.WarehouseStock
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{cells: make(map[stockKey]*model.WarehouseStock)}
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) cell(warehouseID, variantID uuid.UUID) *model.WarehouseStock {
	k := stockKey{warehouse: warehouseID, variant: variantID}
	c, ok := r.cells[k]
	if !ok {
		c = &model.WarehouseStock{WarehouseID: warehouseID, VariantID: variantID}
		r.cells[k] = c
	}
	return c
}

func (r *stubStockRepo) Find(_ context.Context, warehouseID, variantID uuid.UUID) (*model.WarehouseStock, error) {
	c, ok := r.cells[stockKey{warehouse: warehouseID, variant: variantID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *c
	return &found, nil
}

func (r *stubStockRepo) AddFilledTx(_ *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	r.cell(warehouseID, variantID).FilledQty += qty
	return nil
}

func (r *stubStockRepo) AddEmptyTx(_ *gorm.DB, warehouseID, variantID uuid.UUID, qty int) error {
	r.cell(warehouseID, variantID).EmptyQty += qty
	return nil
}

func (r *stubStockRepo) TakeFilledTx(_ *gorm.DB, warehouseID, variantID uuid.UUID, qty int) (bool, error) {
	c := r.cell(warehouseID, variantID)
	if c.FilledQty < qty {
		return false, nil
	}
	c.FilledQty -= qty
	return true, nil
}

func (r *stubStockRepo) TakeEmptyTx(_ *gorm.DB, warehouseID, variantID uuid.UUID, qty int) (bool, error) {
	c := r.cell(warehouseID, variantID)
	if c.EmptyQty < qty {
		return false, nil
	}
	c.EmptyQty -= qty
	return true, nil
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Transfer repository ───────────────────────────────────────────────────────

type stubTransferRepo struct {
	seq       int64
	refSeq    int64
	transfers []*model.CylinderTransfer
}

func newStubTransferRepo() *stubTransferRepo { return &stubTransferRepo{} }

func (r *stubTransferRepo) DB() *gorm.DB { return nil }

func (r *stubTransferRepo) CreateTx(_ *gorm.DB, t *model.CylinderTransfer) error {
	r.seq++
	t.ID = r.seq
	t.CreatedAt = time.Now()
	stored := *t
	r.transfers = append(r.transfers, &stored)
	return nil
}

func (r *stubTransferRepo) NextReferenceNumber(_ *gorm.DB) (int64, error) {
	r.refSeq++
	return r.refSeq, nil
}

func (r *stubTransferRepo) List(_ context.Context, filter dto.MovementFilter, fetch int) ([]model.CylinderTransfer, int64, error) {
	var out []model.CylinderTransfer
	for _, t := range r.transfers {
		if filter.CustomerID != "" && t.CustomerID.String() != filter.CustomerID {
			continue
		}
		if filter.VariantID != "" && t.VariantID.String() != filter.VariantID {
			continue
		}
		out = append(out, *t)
	}
	total := int64(len(out))
	if fetch < len(out) {
		out = out[:fetch]
	}
	return out, total, nil
}

var _ repository.TransferRepository = (*stubTransferRepo)(nil)

// ── Bank ledger service ───────────────────────────────────────────────────────

type stubBankSvc struct {
	deposits []model.BankLedgerEntry
	failErr  error
}

func (s *stubBankSvc) RecordDepositTx(_ *gorm.DB, accountID uuid.UUID, amount decimal.Decimal, refID *int64, referenceNumber, description string) (*model.BankLedgerEntry, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	entry := model.BankLedgerEntry{
		BankAccountID:   accountID,
		EntryType:       model.BankEntryDeposit,
		Amount:          amount,
		RefID:           refID,
		ReferenceNumber: referenceNumber,
		Description:     description,
	}
	s.deposits = append(s.deposits, entry)
	return &entry, nil
}

func (s *stubBankSvc) RecordWithdrawalTx(_ *gorm.DB, _ uuid.UUID, _ decimal.Decimal, _ *int64, _, _ string) (*model.BankLedgerEntry, error) {
	return nil, errors.New("not supported in tests")
}

func (s *stubBankSvc) ListEntries(_ context.Context, _ uuid.UUID, _, _ int) ([]model.BankLedgerEntry, int64, error) {
	return s.deposits, int64(len(s.deposits)), nil
}

var _ BankLedgerService = (*stubBankSvc)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

// ledgerFixture wires every ledger-facing service against the in-memory stubs.
type ledgerFixture struct {
	ledgerRepo   *stubLedgerRepo
	customers    *stubCustomerRepo
	variants     *stubVariantRepo
	warehouses   *stubWarehouseRepo
	modes        *stubModeRepo
	sales        *stubSaleRepo
	stockRepo    *stubStockRepo
	transferRepo *stubTransferRepo
	bank         *stubBankSvc

	stock   StockService
	ledger  LedgerService
	updates LedgerUpdateService
	queries LedgerQueryService
	repair  LedgerRepairService
	sale    SaleService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		ledgerRepo:   newStubLedgerRepo(),
		customers:    newStubCustomerRepo(),
		variants:     newStubVariantRepo(),
		warehouses:   newStubWarehouseRepo(),
		modes:        newStubModeRepo(),
		sales:        newStubSaleRepo(),
		stockRepo:    newStubStockRepo(),
		transferRepo: newStubTransferRepo(),
		bank:         &stubBankSvc{},
	}
	f.stock = NewStockService(f.stockRepo)
	f.ledger = NewLedgerService(
		f.ledgerRepo, f.customers, f.variants, f.warehouses, f.modes, f.sales,
		f.stock, f.bank, nil)
	f.updates = NewLedgerUpdateService(
		f.ledgerRepo, f.customers, f.sales, f.modes, f.stock, DefaultEditWindow)
	f.queries = NewLedgerQueryService(f.ledgerRepo, f.transferRepo)
	f.repair = NewLedgerRepairService(f.ledgerRepo)
	f.sale = NewSaleService(f.sales, f.customers, f.stock, f.ledger)
	return f
}

func (f *ledgerFixture) seedCustomer(name string) *model.Customer {
	f.customers.phoneSeq++
	c := &model.Customer{
		ID:     uuid.New(),
		Name:   name,
		Phone:  fmt.Sprintf("98%08d", f.customers.phoneSeq),
		Active: true,
	}
	f.customers.customers[c.ID] = c
	return c
}

func (f *ledgerFixture) seedVariant(name string) *model.CylinderVariant {
	v := &model.CylinderVariant{ID: uuid.New(), Name: name, CapacityKg: decimal.NewFromFloat(14.2), Active: true}
	f.variants.variants[v.ID] = v
	return v
}

func (f *ledgerFixture) seedWarehouse(name string) *model.Warehouse {
	w := &model.Warehouse{ID: uuid.New(), Name: name, Active: true}
	f.warehouses.warehouses[w.ID] = w
	return w
}

func (f *ledgerFixture) seedMode(name string, requiresBank bool) *model.PaymentMode {
	m := &model.PaymentMode{ID: uuid.New(), Name: name, RequiresBankAccount: requiresBank, Active: true}
	f.modes.modes[m.ID] = m
	return m
}

func (f *ledgerFixture) seedSale(customerID, warehouseID uuid.UUID, items ...model.SaleItem) *model.Sale {
	f.sales.refSeq++
	s := &model.Sale{
		ReferenceNumber: fmt.Sprintf("SAL-%06d", f.sales.refSeq),
		CustomerID:      customerID,
		WarehouseID:     warehouseID,
		SaleDate:        mustDate("2026-08-01"),
		Items:           items,
	}
	for i := range s.Items {
		s.TotalAmount = s.TotalAmount.Add(s.Items[i].FinalPrice)
	}
	_ = f.sales.CreateTx(nil, s)
	return s
}

func (f *ledgerFixture) setStock(warehouseID, variantID uuid.UUID, filled, empty int) {
	c := f.stockRepo.cell(warehouseID, variantID)
	c.FilledQty = filled
	c.EmptyQty = empty
}

func (f *ledgerFixture) stockOf(warehouseID, variantID uuid.UUID) (int, int) {
	c := f.stockRepo.cell(warehouseID, variantID)
	return c.FilledQty, c.EmptyQty
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int                         { return &v }
func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }
func strPtr(s string) *string                   { return &s }
