package router

import (
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/config"
	"github.com/Kingbhau/gas-inventory-sub000/internal/handler"
	"github.com/Kingbhau/gas-inventory-sub000/internal/middleware"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"
	"github.com/Kingbhau/gas-inventory-sub000/internal/service"
	"github.com/Kingbhau/gas-inventory-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	modeRepo := repository.NewPaymentModeRepository(db)
	stockRepo := repository.NewStockRepository(db)
	bankRepo := repository.NewBankRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	stockSvc := service.NewStockService(stockRepo)
	bankSvc := service.NewBankLedgerService(bankRepo)
	ledgerSvc := service.NewLedgerService(
		ledgerRepo, customerRepo, variantRepo, warehouseRepo, modeRepo, saleRepo,
		stockSvc, bankSvc, dispatcher)
	updateSvc := service.NewLedgerUpdateService(
		ledgerRepo, customerRepo, saleRepo, modeRepo, stockSvc, cfg.LedgerEditWindow)
	querySvc := service.NewLedgerQueryService(ledgerRepo, transferRepo)
	repairSvc := service.NewLedgerRepairService(ledgerRepo)
	saleSvc := service.NewSaleService(saleRepo, customerRepo, stockSvc, ledgerSvc)
	transferSvc := service.NewTransferService(transferRepo, customerRepo, stockSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc, updateSvc, querySvc, repairSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	catalogH := handler.NewCatalogHandler(variantRepo, warehouseRepo, modeRepo, stockSvc)
	banksH := handler.NewBanksHandler(bankRepo, bankSvc)
	transfersH := handler.NewTransfersHandler(transferSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes. Roles: operator can read and write day-to-day
	// transactions; retroactive edits and repairs are admin only.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole("operator", "admin")
	admin := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", staff, customersH.Create)
			customers.GET("", staff, customersH.List)
			customers.GET("/:id", staff, customersH.Get)
			customers.PUT("/:id", staff, customersH.Update)
			customers.DELETE("/:id", admin, customersH.Deactivate)
		}

		ledger := v1.Group("/ledger")
		{
			ledger.POST("/entries", staff, ledgerH.CreateEntry)
			ledger.GET("/entries/:id", staff, ledgerH.GetEntry)
			ledger.PUT("/entries/:id", admin, ledgerH.UpdateEntry)
			ledger.POST("/payments", staff, ledgerH.RecordPayment)
			ledger.GET("/payments", staff, ledgerH.ListPayments)
			ledger.GET("/empty-returns", staff, ledgerH.ListEmptyReturns)
			ledger.GET("/movements", staff, ledgerH.ListMovements)
			ledger.POST("/batch-lookup", staff, ledgerH.BatchLookup)
			ledger.GET("/customers/:customerId/balances", staff, ledgerH.GetCustomerBalances)
			ledger.GET("/customers/:customerId/balances/:variantId", staff, ledgerH.GetVariantBalance)
			ledger.GET("/customers/:customerId/due", staff, ledgerH.GetCustomerDue)
			ledger.GET("/customers/:customerId/pending-returns", staff, ledgerH.GetPendingReturns)
			ledger.POST("/recalculate", admin, ledgerH.RecalculateBalances)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", staff, salesH.Create)
			sales.GET("/:id", staff, salesH.Get)
		}

		v1.POST("/transfers", staff, transfersH.Create)

		catalog := v1.Group("")
		{
			catalog.GET("/variants", staff, catalogH.ListVariants)
			catalog.POST("/variants", admin, catalogH.CreateVariant)
			catalog.GET("/warehouses", staff, catalogH.ListWarehouses)
			catalog.POST("/warehouses", admin, catalogH.CreateWarehouse)
			catalog.GET("/payment-modes", staff, catalogH.ListPaymentModes)
			catalog.POST("/payment-modes", admin, catalogH.CreatePaymentMode)
			catalog.GET("/stock/:warehouseId/:variantId", staff, catalogH.GetStock)
			catalog.POST("/stock/adjust", admin, catalogH.AdjustStock)
		}

		banks := v1.Group("/bank-accounts")
		{
			banks.GET("", staff, banksH.ListAccounts)
			banks.POST("", admin, banksH.CreateAccount)
			banks.GET("/:id/entries", staff, banksH.ListEntries)
		}
	}

	return r
}
