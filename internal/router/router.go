package router

import (
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/config"
	"github.com/programamos-tech/zonat-sub000/internal/handler"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/repository"
	"github.com/programamos-tech/zonat-sub000/internal/service"
	"github.com/programamos-tech/zonat-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// principalID is the id of the tienda principal, resolved once at startup.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, principalID uuid.UUID) *gin.Engine {
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
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	tiendaRepo := repository.NewTiendaRepository(db)
	tiendaStockRepo := repository.NewTiendaStockRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	creditoRepo := repository.NewCreditoRepository(db)
	trasladoRepo := repository.NewTrasladoRepository(db)
	garantiaRepo := repository.NewGarantiaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	bitacoraRepo := repository.NewBitacoraRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, tiendaStockRepo, rdb)
	stockSvc := service.NewStockService(productoRepo, tiendaStockRepo, movimientoRepo, principalID)
	tiendaSvc := service.NewTiendaService(tiendaRepo, tiendaStockRepo, principalID)
	clienteSvc := service.NewClienteService(clienteRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, tiendaStockRepo, creditoRepo, stockSvc, dispatcher, principalID)
	trasladoSvc := service.NewTrasladoService(trasladoRepo, ventaRepo, productoRepo, clienteRepo, tiendaRepo, stockSvc, dispatcher, principalID)
	creditoSvc := service.NewCreditoService(creditoRepo, dispatcher)
	garantiaSvc := service.NewGarantiaService(garantiaRepo, productoRepo, stockSvc, principalID)
	bitacoraSvc := service.NewBitacoraService(bitacoraRepo, dispatcher)
	reporteSvc := service.NewReporteService(ventaRepo, productoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	stockH := handler.NewStockHandler(stockSvc)
	tiendasH := handler.NewTiendasHandler(tiendaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	trasladosH := handler.NewTrasladosHandler(trasladoSvc)
	creditosH := handler.NewCreditosHandler(creditoSvc)
	garantiasH := handler.NewGarantiasHandler(garantiaSvc)
	bitacoraH := handler.NewBitacoraHandler(bitacoraSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth required
	r.GET("/v1/precio/:referencia", consultaH.GetPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: vendedor, supervisor, admin. Declared per endpoint.
		vender := middleware.RequireRole("vendedor", "supervisor", "admin")
		supervisar := middleware.RequireRole("supervisor", "admin")
		administrar := middleware.RequireRole("admin")

		v1.POST("/ventas", vender, ventasH.Crear)
		v1.GET("/ventas", vender, ventasH.Listar)
		v1.GET("/ventas/:id", vender, ventasH.Obtener)
		v1.POST("/ventas/:id/completar", vender, ventasH.Completar)
		v1.DELETE("/ventas/:id", supervisar, ventasH.Anular)
		v1.GET("/ventas/:id/credito", vender, creditosH.ObtenerPorVenta)

		v1.GET("/productos", vender, productosH.Listar)
		v1.GET("/productos/:id", vender, productosH.ObtenerPorID)
		prods := v1.Group("/productos", administrar)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.DELETE("/:id/definitivo", productosH.Eliminar)
		}

		stock := v1.Group("/stock")
		{
			stock.GET("/movimientos", supervisar, stockH.Movimientos)
			stock.GET("/:id", vender, stockH.Disponible)
			stock.POST("/:id/ajuste", supervisar, stockH.Ajustar)
			stock.POST("/:id/mover", supervisar, stockH.Mover)
		}

		traslados := v1.Group("/traslados")
		{
			traslados.POST("", supervisar, trasladosH.Crear)
			traslados.GET("", vender, trasladosH.Listar)
			traslados.GET("/:id", vender, trasladosH.Obtener)
			traslados.POST("/:id/despachar", vender, trasladosH.Despachar)
			traslados.POST("/:id/recibir", vender, trasladosH.Recibir)
			traslados.DELETE("/:id", supervisar, trasladosH.Anular)
		}

		creditos := v1.Group("/creditos")
		{
			creditos.GET("", vender, creditosH.Listar)
			creditos.GET("/:id", vender, creditosH.Obtener)
			creditos.POST("/:id/abonos", vender, creditosH.RegistrarAbono)
		}

		garantias := v1.Group("/garantias")
		{
			garantias.POST("", vender, garantiasH.Crear)
			garantias.GET("", vender, garantiasH.Listar)
			garantias.GET("/:id", vender, garantiasH.Obtener)
			garantias.POST("/:id/atender", supervisar, garantiasH.Atender)
			garantias.POST("/:id/rechazar", supervisar, garantiasH.Rechazar)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", vender, clientesH.Crear)
			clientes.GET("", vender, clientesH.Listar)
			clientes.GET("/:id", vender, clientesH.Obtener)
			clientes.PUT("/:id", vender, clientesH.Actualizar)
			clientes.DELETE("/:id", supervisar, clientesH.Desactivar)
		}

		tiendas := v1.Group("/tiendas")
		{
			tiendas.GET("", vender, tiendasH.Listar)
			tiendas.GET("/:id", vender, tiendasH.Obtener)
			tiendas.GET("/:id/stock", vender, tiendasH.ListarStock)
			tiendas.PUT("/:id/precios", vender, tiendasH.ActualizarPrecio)
			tiendas.POST("", administrar, tiendasH.Crear)
			tiendas.DELETE("/:id", administrar, tiendasH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", administrar)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		v1.GET("/reportes/rentabilidad", supervisar, reportesH.Rentabilidad)
		v1.GET("/bitacora", administrar, bitacoraH.Listar)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
