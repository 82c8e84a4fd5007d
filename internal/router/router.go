package router

import (
	"time"

	"stockpro/internal/cache"
	"stockpro/internal/cart"
	"stockpro/internal/config"
	"stockpro/internal/handler"
	"stockpro/internal/infra"
	"stockpro/internal/middleware"
	"stockpro/internal/notify"
	"stockpro/internal/repository"
	"stockpro/internal/service"
	"stockpro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// Deps are the shared infrastructure handles built by the composition root.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Dispatcher  *worker.Dispatcher
	SMTPBreaker *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	viewCache := cache.NewRedisCache(deps.Redis, 5*time.Minute)
	notifier := notify.NewRedisNotifier(deps.Redis)
	carts := cart.NewRedisStore(deps.Redis, cfg.CartTTL())
	loc := cfg.Location()

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(deps.DB)
	saleRepo := repository.NewSaleRepository(deps.DB)
	movementRepo := repository.NewStockMovementRepository(deps.DB)
	categoryRepo := repository.NewCategoryRepository(deps.DB)
	supplierRepo := repository.NewSupplierRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	var receipts service.ReceiptQueue
	if deps.Dispatcher != nil {
		receipts = deps.Dispatcher
	}
	saleSvc := service.NewSaleService(service.SaleDeps{
		Sales:     saleRepo,
		Products:  productRepo,
		Movements: movementRepo,
		Numbers:   repository.NewSaleNumberGenerator(),
		Cache:     viewCache,
		Notifier:  notifier,
		Receipts:  receipts,
		Location:  loc,
	})
	cartSvc := service.NewCartService(carts, productRepo, saleSvc)
	productSvc := service.NewProductService(productRepo, movementRepo, viewCache)
	categorySvc := service.NewCategoryService(categoryRepo, viewCache)
	supplierSvc := service.NewSupplierService(supplierRepo, viewCache)

	statsCfg := service.StatsConfig{
		MonthlyGoal:            cfg.Goal(),
		LowStockThreshold:      cfg.LowStockThreshold,
		CriticalStockThreshold: cfg.CriticalStockThreshold,
		Location:               loc,
	}
	statsSvc := service.NewStatsService(saleRepo, productRepo, viewCache, statsCfg)
	reportSvc := service.NewReportService(productRepo, saleRepo, movementRepo, viewCache, statsCfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	cartsH := handler.NewCartsHandler(cartSvc)
	productsH := handler.NewProductsHandler(productSvc)
	catalogH := handler.NewCatalogHandler(categorySvc, supplierSvc)
	statsH := handler.NewStatsHandler(statsSvc, reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.SMTPBreaker))

	everyone := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleManager, middleware.RoleSeller)
	managers := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleManager)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", everyone, salesH.Create)
			sales.GET("", everyone, salesH.List)
			sales.GET("/stats", everyone, statsH.SalesStats)
			sales.GET("/:id", everyone, salesH.Get)
			sales.POST("/:id/cancel", managers, salesH.Cancel)
		}

		carts := v1.Group("/carts", everyone)
		{
			carts.POST("", cartsH.Create)
			carts.GET("/:id", cartsH.Get)
			carts.POST("/:id/items", cartsH.AddItem)
			carts.PATCH("/:id/items/:line", cartsH.UpdateItem)
			carts.DELETE("/:id/items/:line", cartsH.RemoveItem)
			carts.PUT("/:id/discount", cartsH.SetDiscount)
			carts.POST("/:id/checkout", cartsH.Checkout)
			carts.DELETE("/:id", cartsH.Discard)
		}

		// Catalog reads are open to every role; writes need a manager.
		v1.GET("/products", everyone, productsH.List)
		v1.GET("/products/:id", everyone, productsH.Get)
		products := v1.Group("/products", managers)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		v1.GET("/categories", everyone, catalogH.ListCategories)
		v1.POST("/categories", managers, catalogH.CreateCategory)
		v1.GET("/suppliers", everyone, catalogH.ListSuppliers)
		v1.POST("/suppliers", managers, catalogH.CreateSupplier)

		v1.GET("/dashboard", everyone, statsH.Dashboard)
		v1.GET("/analytics", managers, statsH.Analytics)

		reports := v1.Group("/reports", managers)
		{
			reports.GET("/low-stock", statsH.LowStock)
			reports.GET("/expiring", statsH.Expiring)
			reports.GET("/purchase-suggestions", statsH.PurchaseSuggestions)
			reports.GET("/stock-movements", statsH.StockMovements)
			reports.GET("/sales", statsH.SalesReport)
		}
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
