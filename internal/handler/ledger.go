package handler

// ledger.go — the HTTP surface of the customer cylinder ledger: entry writes,
// retroactive edits, payments, balance and due reads, the paginated listings,
// and the administrative balance repair.

import (
	"net/http"
	"strconv"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/middleware"
	"github.com/Kingbhau/gas-inventory-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	writes  service.LedgerService
	updates service.LedgerUpdateService
	queries service.LedgerQueryService
	repair  service.LedgerRepairService
}

func NewLedgerHandler(
	writes service.LedgerService,
	updates service.LedgerUpdateService,
	queries service.LedgerQueryService,
	repair service.LedgerRepairService,
) *LedgerHandler {
	return &LedgerHandler{writes: writes, updates: updates, queries: queries, repair: repair}
}

func ledgerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ledger entry id"))
		return 0, false
	}
	return id, true
}

func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateLedgerEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Actor = middleware.GetClaims(c).Username

	resp, err := h.writes.CreateLedgerEntry(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	id, ok := ledgerID(c)
	if !ok {
		return
	}
	var req dto.UpdateLedgerEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Actor = middleware.GetClaims(c).Username

	resp, err := h.updates.UpdateLedgerEntry(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Actor = middleware.GetClaims(c).Username

	resp, err := h.writes.RecordPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LedgerHandler) GetEntry(c *gin.Context) {
	id, ok := ledgerID(c)
	if !ok {
		return
	}
	resp, err := h.queries.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) GetVariantBalance(c *gin.Context) {
	resp, err := h.queries.GetVariantBalance(c.Request.Context(), c.Param("customerId"), c.Param("variantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) GetCustomerBalances(c *gin.Context) {
	resp, err := h.queries.GetCustomerBalances(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) GetCustomerDue(c *gin.Context) {
	resp, err := h.queries.GetCustomerDue(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) GetPendingReturns(c *gin.Context) {
	resp, err := h.queries.GetPendingReturns(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) BatchLookup(c *gin.Context) {
	var req dto.BatchLookupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.queries.BatchLookup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.queries.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) ListPayments(c *gin.Context) {
	var filter dto.PaymentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.queries.ListPayments(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) ListEmptyReturns(c *gin.Context) {
	var filter dto.EmptyReturnFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.queries.ListEmptyReturns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecalculateBalances re-derives every stored balance and due. Admin only;
// runs in a single transaction and reports what it touched.
func (h *LedgerHandler) RecalculateBalances(c *gin.Context) {
	resp, err := h.repair.RecalculateAllBalances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
