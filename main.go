package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/collections"
	"solarvisit/config"
	"solarvisit/handlers"
)

func main() {
	app := pocketbase.New()
	cfg := config.Load()

	app.RootCmd.AddCommand(newExportCmd(app))

	// Create collections and seed the device catalogue on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Visits ──────────────────────────────────────────────
		se.Router.POST("/api/visits", handlers.HandleVisitCreate(app, cfg))
		se.Router.GET("/api/visits/{id}/totals", handlers.HandleVisitTotals(app))
		se.Router.GET("/api/visits/{id}/quote", handlers.HandleVisitQuote(app))
		se.Router.GET("/visits/{id}/quote/pdf", handlers.HandleVisitQuotePDF(app, cfg))

		// ── Exports ─────────────────────────────────────────────
		se.Router.GET("/exports/summary.csv", handlers.HandleSummaryCSV(app))
		se.Router.GET("/exports/summary.json", handlers.HandleSummaryJSON(app))
		se.Router.GET("/exports/workbook.xlsx", handlers.HandleWorkbookExport(app))
		se.Router.GET("/exports/backup.json", handlers.HandleBackupExport(app))
		se.Router.POST("/imports/backup", handlers.HandleBackupRestore(app))

		// ── Dashboard ───────────────────────────────────────────
		se.Router.GET("/api/dashboard", handlers.HandleDashboard(app))

		// Redirect home to the dashboard
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/api/dashboard")
		})

		return se.Next()
	})

	log.Printf("Starting as agent=%q team=%q", cfg.AgentName, cfg.TeamID)
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
