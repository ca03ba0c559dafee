package router

import (
	"time"

	"otica/internal/config"
	"otica/internal/handler"
	"otica/internal/identity"
	"otica/internal/middleware"
	"otica/internal/model"
	"otica/internal/repository"
	"otica/internal/service"
	"otica/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, provider identity.Provider, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.RateLimiter(200, time.Minute)) // 200 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	staffRepo := repository.NewStaffRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	cashRepo := repository.NewCashRepository(db)
	receivableRepo := repository.NewReceivableRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	stockMovementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(inventoryRepo, stockMovementRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, inventorySvc, customerRepo, storeRepo, productRepo, cfg.OrderNumberPrefix)
	saleSvc := service.NewSaleService(saleRepo, orderRepo, inventorySvc, cashRepo, storeRepo, receivableRepo, dispatcher, cfg.ReceivableDueDays)
	cashSvc := service.NewCashService(cashRepo, receivableRepo)
	receivableSvc := service.NewReceivableService(receivableRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	productSvc := service.NewProductService(productRepo)
	staffSvc := service.NewStaffService(staffRepo, provider, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ordersH := handler.NewOrderHandler(orderSvc)
	salesH := handler.NewSaleHandler(saleSvc)
	cashH := handler.NewCashHandler(cashSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	labH := handler.NewLabHandler(orderSvc)
	customersH := handler.NewCustomerHandler(customerSvc)
	productsH := handler.NewProductHandler(productSvc, productRepo, rdb)
	staffH := handler.NewStaffHandler(staffSvc)
	receivablesH := handler.NewReceivableHandler(receivableSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes — every /v1 request carries a provider token that
	// resolves to an active staff member of the tenant.
	authMW := middleware.Auth(provider, staffRepo)
	v1 := r.Group("/v1", authMW)
	{
		anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff, model.RoleSeller)
		elevated := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

		orders := v1.Group("/orders", anyStaff)
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.POST("/:id/items", ordersH.AddItem)
			orders.PATCH("/:id/items/:itemId", ordersH.UpdateItem)
			orders.DELETE("/:id/items/:itemId", ordersH.RemoveItem)
			orders.POST("/:id/discount", ordersH.ApplyDiscount)
			orders.POST("/:id/send-to-payment", ordersH.SendToPayment)
			orders.POST("/:id/status", ordersH.AdvanceStatus)
			orders.POST("/:id/cancel", ordersH.Cancel)
		}

		sales := v1.Group("/sales", anyStaff)
		{
			sales.POST("/checkout", salesH.Checkout)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
		}

		cash := v1.Group("/cash")
		{
			cash.POST("/open", anyStaff, cashH.Open)
			cash.GET("/my-session", anyStaff, cashH.MySession)
			cash.GET("/sessions", elevated, cashH.List)
			cash.GET("/sessions/:id", anyStaff, cashH.Get)
			cash.POST("/sessions/:id/movements", anyStaff, cashH.RecordMovement)
			cash.POST("/sessions/:id/close", anyStaff, cashH.Close)
			cash.GET("/sessions/:id/stats", anyStaff, cashH.Stats)
			// Audit resolution needs an elevated role; the service re-checks.
			cash.POST("/sessions/:id/audit", elevated, cashH.Audit)
		}

		inv := v1.Group("/inventory")
		{
			inv.GET("/levels", anyStaff, inventoryH.ListLevels)
			inv.GET("/movements", anyStaff, inventoryH.ListMovements)
			inv.POST("/adjust", elevated, inventoryH.AdjustStock)
			inv.POST("/adjust-lens", elevated, inventoryH.AdjustLensStock)
		}

		v1.GET("/lab/queue", anyStaff, labH.Queue)

		customers := v1.Group("/customers", anyStaff)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PATCH("/:id", customersH.Update)
			customers.DELETE("/:id", elevated, customersH.Deactivate)
		}

		products := v1.Group("/products")
		{
			products.GET("/frames", anyStaff, productsH.ListFrames)
			products.GET("/frames/:id", anyStaff, productsH.GetFrame)
			products.GET("/lenses", anyStaff, productsH.ListLenses)
			products.GET("/lenses/:id", anyStaff, productsH.GetLens)
			products.GET("/price/:reference", anyStaff, productsH.PriceByReference)
			products.POST("/frames", elevated, productsH.CreateFrame)
			products.PATCH("/frames/:id", elevated, productsH.UpdateFrame)
			products.POST("/lenses", elevated, productsH.CreateLens)
			products.PATCH("/lenses/:id", elevated, productsH.UpdateLens)
		}

		staff := v1.Group("/staff", elevated)
		{
			staff.POST("/invite", staffH.Invite)
			staff.GET("", staffH.List)
			staff.GET("/:id", staffH.Get)
			staff.PATCH("/:id", staffH.Update)
		}

		receivables := v1.Group("/receivables", anyStaff)
		{
			receivables.GET("", receivablesH.List)
			receivables.GET("/:id", receivablesH.Get)
			receivables.POST("/:id/settle", receivablesH.Settle)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
