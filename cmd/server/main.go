package main

import (
	"deadline_flow_go/config"
	"deadline_flow_go/db"
	"deadline_flow_go/handlers"
	"deadline_flow_go/middleware"
	"deadline_flow_go/services"
	"deadline_flow_go/services/jobs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.MigrateAll(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.SeedOnStartup {
		if err := services.SeedReferenceData(db.DB); err != nil {
			log.Fatalf("Failed to seed reference data: %v", err)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(middleware.ActorContext())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	api := e.Group("/api")
	{
		// Inbound trigger events from the case-lifecycle collaborator
		api.POST("/trigger-events", handlers.TriggerEventHandler)

		// Case projections (jurisdiction resolution)
		api.POST("/cases", handlers.UpsertCaseRefHandler)
		api.GET("/cases/:id", handlers.GetCaseRefHandler)

		// Deadlines and overrides
		api.GET("/automated-deadlines", handlers.ListAutomatedDeadlinesHandler)
		api.GET("/automated-deadlines/:id", handlers.GetAutomatedDeadlineHandler)
		api.GET("/automated-deadlines/:id/calculations", handlers.GetCalculationHistoryHandler)
		api.POST("/automated-deadlines/:id/override", handlers.OverrideDeadlineHandler)

		// Reference data administration
		api.POST("/jurisdictions", handlers.CreateJurisdictionHandler)
		api.GET("/jurisdictions", handlers.ListJurisdictionsHandler)
		api.GET("/jurisdictions/:id", handlers.GetJurisdictionHandler)
		api.POST("/jurisdictions/:id/holidays", handlers.AddHolidayHandler)
		api.GET("/jurisdictions/:id/holidays", handlers.ListHolidaysHandler)
		api.DELETE("/jurisdictions/:id/holidays/:holidayId", handlers.RemoveHolidayHandler)
		api.POST("/court-rules", handlers.CreateCourtRuleHandler)
		api.GET("/jurisdictions/:id/court-rules", handlers.ListCourtRulesHandler)
		api.POST("/deadline-templates", handlers.CreateTemplateHandler)
		api.GET("/deadline-templates", handlers.ListTemplatesHandler)
		api.GET("/deadline-templates/:id", handlers.GetTemplateHandler)
		api.PUT("/deadline-templates/:id", handlers.UpdateTemplateHandler)
		api.DELETE("/deadline-templates/:id", handlers.DeactivateTemplateHandler)

		// Bulk import
		api.GET("/reference/import/template", handlers.DownloadImportTemplateHandler)
		api.POST("/reference/import", handlers.ImportReferenceHandler)

		// Outbound notifications
		api.GET("/notifications", handlers.ListNotificationsHandler)
		api.POST("/notifications/:id/read", handlers.MarkNotificationReadHandler)
		api.POST("/notifications/read-all", handlers.MarkAllNotificationsReadHandler)

		// Operation audit trail
		api.GET("/audit-logs", handlers.ListAuditLogsHandler)
	}

	// Background reminder sweep through an explicitly constructed runner
	runner := jobs.NewRunner(time.UTC)
	if err := runner.Add(cfg.SweepSchedule, "deadline-sweep", func() {
		if _, err := jobs.SweepDeadlines(db.DB, cfg, time.Now().UTC()); err != nil {
			log.Printf("Deadline sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule deadline sweep: %v", err)
	}
	runner.Start()
	defer runner.Stop()

	// Stop the runner cleanly on shutdown signals
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		runner.Stop()
		if err := e.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
