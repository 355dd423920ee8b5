package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Assemblies *inventory.AssemblyService
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	assemblies := api.Group("/assemblies")
	assemblyHandler := NewAssemblyHandler(deps.Assemblies)
	assemblies.Post("/", assemblyHandler.Create)
	assemblies.Get("/:id", assemblyHandler.GetByID)
	assemblies.Patch("/:id/qc", assemblyHandler.UpdateQC)
	assemblies.Delete("/:id", assemblyHandler.Delete)

	components := api.Group("/components")
	componentHandler := NewComponentHandler(deps.Assemblies)
	components.Get("/:id/batches", componentHandler.ListBatches)
	components.Post("/:id/batches", componentHandler.ReceiveBatch)
	components.Get("/:id/stock", componentHandler.GetStock)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Assemblies)
	products.Get("/:id/bom", productHandler.GetBOM)
}
