package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront-api/internal/domain/user"
	"storefront-api/internal/handler/api"
	"storefront-api/internal/handler/middleware"
	"storefront-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	cartHandler *api.CartHandler,
	orderHandler *api.OrderHandler,
	paymentHandler *api.PaymentHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cartHandler, orderHandler, paymentHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	cartHandler *api.CartHandler,
	orderHandler *api.OrderHandler,
	paymentHandler *api.PaymentHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		cart := apiGroup.Group("/cart")
		cart.Use(authMiddleware.RequireAuth())
		{
			addRoutes(cart, []route{
				{Method: http.MethodGet, Path: "", Handler: cartHandler.Get},
				{Method: http.MethodDelete, Path: "", Handler: cartHandler.Clear},
				{Method: http.MethodPost, Path: "/items", Handler: cartHandler.AddItem},
				{Method: http.MethodPatch, Path: "/items/:id", Handler: cartHandler.UpdateItem},
				{Method: http.MethodDelete, Path: "/items/:id", Handler: cartHandler.RemoveItem},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.List},
				{Method: http.MethodGet, Path: "/:orderNo", Handler: orderHandler.Get},
				{Method: http.MethodPost, Path: "/:orderNo/cancel", Handler: orderHandler.Cancel},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			intents := payments.Group("/intents")
			intents.Use(authMiddleware.RequireAuth())
			addRoutes(intents, []route{
				{Method: http.MethodPost, Path: "", Handler: paymentHandler.CreateIntent},
			})

			// Provider-facing endpoints authenticate by signature, not token.
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "/callback/:provider", Handler: paymentHandler.Callback},
				{Method: http.MethodPost, Path: "/webhook/:provider", Handler: paymentHandler.Webhook},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth())
		admin.Use(authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPatch, Path: "/orders/:orderNo/status", Handler: adminHandler.UpdateOrderStatus},
				{Method: http.MethodPost, Path: "/inventory/:productId/adjust", Handler: adminHandler.AdjustInventory},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
