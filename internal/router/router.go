package router

import (
	"github.com/blackeyes972/budget-familiare/internal/config"
	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/handler"
	"github.com/blackeyes972/budget-familiare/internal/registry"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, store *database.Current, reg *registry.Registry) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(store)
	r.GET("/healthz", healthHandler.Health)

	// ====== API ======
	api := r.Group("/api")

	txHandler := handler.NewTransactionHandler(store)
	api.POST("/transactions", txHandler.Create)
	api.GET("/transactions", txHandler.List)
	api.PUT("/transactions/:id", txHandler.Update)
	api.DELETE("/transactions/:id", txHandler.Delete)

	catHandler := handler.NewCategoryHandler(store)
	api.GET("/categories", catHandler.List)
	api.POST("/categories", catHandler.Create)
	api.PUT("/categories/:id", catHandler.Update)
	api.DELETE("/categories/:id", catHandler.Delete)
	api.GET("/categories/suggest", catHandler.Suggest)
	api.GET("/categories/icons", catHandler.SuggestIcons)
	api.GET("/categories/stats", catHandler.Stats)

	reportHandler := handler.NewReportHandler(store)
	api.GET("/reports/period", reportHandler.Period)
	api.GET("/reports/monthly", reportHandler.Monthly)
	api.GET("/reports/monthly/categories", reportHandler.MonthlyCategories)
	api.GET("/reports/monthly/daily", reportHandler.MonthlyDaily)
	api.GET("/reports/monthly/trend", reportHandler.Trend)
	api.GET("/reports/monthly/top-expenses", reportHandler.TopExpenses)

	budgetHandler := handler.NewBudgetHandler(store)
	api.GET("/budgets", budgetHandler.List)
	api.POST("/budgets", budgetHandler.Create)
	api.PUT("/budgets/:id", budgetHandler.Update)
	api.DELETE("/budgets/:id", budgetHandler.Delete)

	goalHandler := handler.NewGoalHandler(store)
	api.GET("/goals", goalHandler.List)
	api.POST("/goals", goalHandler.Create)
	api.PUT("/goals/:id", goalHandler.Update)
	api.DELETE("/goals/:id", goalHandler.Delete)

	profileHandler := handler.NewProfileHandler(reg, store, cfg.Dirs.Data, cfg.Database.LogMode)
	api.GET("/profiles", profileHandler.List)
	api.POST("/profiles", profileHandler.Create)
	api.POST("/profiles/test", profileHandler.Test)
	api.POST("/profiles/:name/select", profileHandler.Select)
	api.DELETE("/profiles/:name", profileHandler.Delete)

	dataHandler := handler.NewDataHandler(store, cfg.Dirs.Backups, cfg.Dirs.Exports)
	api.GET("/export/json", dataHandler.ExportJSON)
	api.GET("/export/csv", dataHandler.ExportCSV)
	api.GET("/export/xlsx", dataHandler.ExportXLSX)
	api.POST("/import/json", dataHandler.ImportJSON)
	api.POST("/backups", dataHandler.CreateBackup)
	api.GET("/backups", dataHandler.ListBackups)

	return r
}
