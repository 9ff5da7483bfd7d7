package handler

import (
	"net/http"
	"strconv"

	"github.com/Kingbhau/gas-inventory-sub000/internal/apierror"
	"github.com/Kingbhau/gas-inventory-sub000/internal/dto"
	"github.com/Kingbhau/gas-inventory-sub000/internal/model"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"
	"github.com/Kingbhau/gas-inventory-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BanksHandler struct {
	repo repository.BankRepository
	svc  service.BankLedgerService
}

func NewBanksHandler(repo repository.BankRepository, svc service.BankLedgerService) *BanksHandler {
	return &BanksHandler{repo: repo, svc: svc}
}

func (h *BanksHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	account := &model.BankAccount{
		Name:          req.Name,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Active:        true,
	}
	if err := h.repo.CreateAccount(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *BanksHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.repo.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *BanksHandler) ListEntries(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid bank account id"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, total, err := h.svc.ListEntries(c.Request.Context(), accountID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
