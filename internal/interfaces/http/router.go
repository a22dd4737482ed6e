package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/auth"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/order"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CartStore *cart.Store
	Catalog   *tax.Catalog
	Book      *tax.AssignmentBook
	Workflow  *order.Workflow
	Receipt   *pdf.ReceiptGenerator
	Display   DisplayConfig
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sesión y carrito (protegido)
	cartHandler := NewCartHandler(deps.CartStore, deps.Book, deps.Catalog, deps.Receipt, deps.Display)
	protected.Put("/session/customer", cartHandler.SetCustomer)
	cartGroup := protected.Group("/cart")
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/lines", cartHandler.AddLine)
	cartGroup.Delete("/lines/:productId", cartHandler.RemoveLine)
	cartGroup.Get("/totals", cartHandler.Totals)
	cartGroup.Get("/receipt", cartHandler.Receipt)

	// Impuestos (protegido)
	taxHandler := NewTaxHandler(deps.Catalog, deps.Book, deps.CartStore)
	protected.Get("/taxes", taxHandler.List)
	cartGroup.Post("/taxes/toggle", taxHandler.Toggle)
	cartGroup.Post("/taxes/seed", taxHandler.Seed)

	// Órdenes y factura directa (protegido)
	orderHandler := NewOrderHandler(deps.Workflow, deps.CartStore, deps.Book)
	protected.Post("/orders", orderHandler.Place)
	protected.Post("/invoices", orderHandler.Invoice)
}
