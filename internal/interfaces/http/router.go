package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/cremeria-api/internal/application/analytics"
	"github.com/jhoicas/cremeria-api/internal/application/auth"
	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
	"github.com/jhoicas/cremeria-api/internal/application/usecase"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *catalog.ProductUseCase
	ImportUC    *catalog.ImportUseCase
	ClientUC    *usecase.ClientUseCase
	UserUC      *usecase.UserUseCase
	OrderUC     *orders.OrderUseCase
	ExportUC    *orders.ExportUseCase
	PDFUC       *orders.PDFUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	Log         *logger.Logger
}

// NewApp crea la aplicación Fiber con el manejador de errores de dominio.
func NewApp(name string, bodyLimitMB int, log *logger.Logger) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 10
	}
	app := fiber.New(fiber.Config{
		AppName:      name,
		BodyLimit:    bodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: importTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: NewErrorHandler(log),
	})
	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	return app
}

// MountDocs sirve Swagger UI en /docs si existe el swagger.json generado.
func MountDocs(app *fiber.App, filePath, title string) bool {
	if _, err := os.Stat(filePath); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    title,
	}))
	return true
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)

	buyers := RequireRole(entity.RoleCliente, entity.RoleVendedor, entity.RoleAdmin)
	warehouse := RequireRole(entity.RoleBodegaSecos, entity.RoleBodegaRefrigerados, entity.RoleBodegaBarra)
	seller := RequireRole(entity.RoleVendedor)
	customer := RequireRole(entity.RoleCliente)

	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/catalog", buyers, productHandler.Catalog)

	clientHandler := NewClientHandler(deps.ClientUC)
	protected.Get("/clients", clientHandler.List)
	protected.Get("/clients/:id", clientHandler.GetByID)

	// Pedidos: alta y consulta por rol, transiciones de bodega y vendedor
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.PDFUC)
	ordersGroup.Post("/", customer, orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/suggestions", buyers, orderHandler.Suggestions)
	ordersGroup.Get("/:id", orderHandler.Detail)
	ordersGroup.Get("/:id/pdf", orderHandler.PDF)
	ordersGroup.Post("/:id/start", warehouse, orderHandler.StartFulfillment)
	ordersGroup.Post("/:id/complete", warehouse, orderHandler.CompleteFulfillment)
	ordersGroup.Post("/:id/adjust", seller, orderHandler.SaveAdjustments)
	ordersGroup.Post("/:id/approve", seller, orderHandler.Approve)
	ordersGroup.Post("/:id/cancel", seller, orderHandler.Cancel)

	// Administración
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))

	importHandler := NewImportHandler(deps.ImportUC, deps.Log)
	admin.Post("/products/import", importHandler.Import)
	admin.Get("/products/import/template", importHandler.Template)
	admin.Post("/products", productHandler.Create)
	admin.Get("/products", productHandler.List)
	admin.Get("/products/:id", productHandler.GetByID)
	admin.Put("/products/:id", productHandler.Update)
	admin.Delete("/products/:id", productHandler.Deactivate)

	admin.Post("/clients", clientHandler.Create)
	admin.Put("/clients/:id", clientHandler.Update)

	userHandler := NewUserHandler(deps.UserUC)
	admin.Post("/users", userHandler.Create)
	admin.Get("/users", userHandler.List)
	admin.Get("/users/:id", userHandler.GetByID)
	admin.Put("/users/:id", userHandler.Update)

	exportHandler := NewExportHandler(deps.ExportUC)
	admin.Get("/orders/export", exportHandler.Export)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	admin.Get("/dashboard", dashboardHandler.GetSummary)
}
