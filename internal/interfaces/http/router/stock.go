package router

import (
	"github.com/erp/warehouse/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// StockHandlers bundles the handlers of the stock API
type StockHandlers struct {
	Catalog  *handler.CatalogHandler
	Movement *handler.MovementHandler
	System   *handler.SystemHandler
}

// StockGroups builds the route groups of the stock API. guard wraps the confirm and
// draft endpoints, the only ones a retried request could apply twice; it may be nil.
func StockGroups(h StockHandlers, guard gin.HandlerFunc) []*DomainGroup {
	withGuard := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if guard == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{guard, fn}
	}

	goods := NewDomainGroup("goods", "/goods")
	goods.POST("", h.Catalog.CreateGood)
	goods.GET("", h.Catalog.ListGoods)
	goods.GET("/:id", h.Catalog.GetGood)

	warehouses := NewDomainGroup("warehouses", "/warehouses")
	warehouses.POST("", h.Catalog.CreateWarehouse)
	warehouses.GET("", h.Catalog.ListWarehouses)
	warehouses.GET("/:id", h.Catalog.GetWarehouse)

	lines := NewDomainGroup("movement-lines", "/movement-lines")
	lines.POST("", h.Movement.CreateLine)
	lines.GET("/:id", h.Movement.GetLine)
	lines.PUT("/:id", h.Movement.UpdateLine)
	lines.DELETE("/:id", h.Movement.DeleteLine)
	lines.POST("/:id/confirm", withGuard(h.Movement.ConfirmLine)...)
	lines.POST("/:id/draft", withGuard(h.Movement.RevertLine)...)
	lines.GET("/:id/matches", h.Movement.ListLineMatches)

	moves := NewDomainGroup("moves", "/moves")
	moves.GET("/:id/lines", h.Movement.ListMoveLines)
	moves.POST("/:id/confirm", withGuard(h.Movement.ConfirmMove)...)
	moves.POST("/:id/draft", withGuard(h.Movement.ResetMove)...)

	available := NewDomainGroup("stock", "/stock")
	available.GET("/available", h.Movement.ListAvailable)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{goods, warehouses, lines, moves, available, system}
}

// RegisterStock registers the stock API on r and the health endpoint on the engine root
func RegisterStock(engine *gin.Engine, r *Router, h StockHandlers, guard gin.HandlerFunc) {
	for _, g := range StockGroups(h, guard) {
		r.Register(g)
	}
	r.Setup()
	engine.GET("/health", h.System.Health)
}
