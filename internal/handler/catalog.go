package handler

// catalog.go — reference data endpoints: cylinder variants, warehouses,
// payment modes and warehouse stock. Thin enough that the handlers talk to the
// repositories directly.

import (
	"net/http"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"
	"github.com/Kingbhau/gas-inventory-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	variants   repository.VariantRepository
	warehouses repository.WarehouseRepository
	modes      repository.PaymentModeRepository
	stock      service.StockService
}

func NewCatalogHandler(
	variants repository.VariantRepository,
	warehouses repository.WarehouseRepository,
	modes repository.PaymentModeRepository,
	stock service.StockService,
) *CatalogHandler {
	return &CatalogHandler{variants: variants, warehouses: warehouses, modes: modes, stock: stock}
}

func (h *CatalogHandler) CreateVariant(c *gin.Context) {
	var req dto.CreateVariantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	v := &model.CylinderVariant{Name: req.Name, CapacityKg: req.CapacityKg, Active: true}
	if err := h.variants.Create(c.Request.Context(), v); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *CatalogHandler) ListVariants(c *gin.Context) {
	variants, err := h.variants.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, variants)
}

func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	w := &model.Warehouse{Name: req.Name, Location: req.Location, Active: true}
	if err := h.warehouses.Create(c.Request.Context(), w); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouses.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

func (h *CatalogHandler) CreatePaymentMode(c *gin.Context) {
	var req dto.CreatePaymentModeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m := &model.PaymentMode{Name: req.Name, RequiresBankAccount: req.RequiresBankAccount, Active: true}
	if err := h.modes.Create(c.Request.Context(), m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *CatalogHandler) ListPaymentModes(c *gin.Context) {
	modes, err := h.modes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, modes)
}

func (h *CatalogHandler) GetStock(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("warehouseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid warehouse id"))
		return
	}
	variantID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid variant id"))
		return
	}
	stock, err := h.stock.GetStock(c.Request.Context(), warehouseID, variantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var req dto.StockAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stock, err := h.stock.Adjust(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}
