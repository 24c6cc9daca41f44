// Package web serves the garagelog UI: server-rendered pages for the
// day-to-day screens plus a small JSON API consumed by the client-side
// scripts (fuel tracking, reminders, account switching).
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"garagelog/internal/config"
	"garagelog/internal/db"
)

// Server bundles router and dependencies for the web application.
type Server struct {
	cfg        config.Config
	store      *db.Store
	log        *zap.SugaredLogger
	engine     *gin.Engine
	pdfEnabled bool
}

// New constructs a server with routes, middleware and templates.
func New(cfg config.Config, store *db.Store, log *zap.SugaredLogger, pdfEnabled bool) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	server := &Server{cfg: cfg, store: store, log: log, engine: engine, pdfEnabled: pdfEnabled}
	engine.Use(server.requestLogger())
	engine.Use(server.accountMiddleware())

	engine.SetFuncMap(templateFuncs())
	engine.LoadHTMLGlob("web/templates/*.html")
	engine.Static("/static", "web/static")

	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Server-rendered pages.
	s.engine.GET("/", s.handleDashboard)

	s.engine.GET("/vehicles", s.handleListVehicles)
	s.engine.GET("/vehicles/new", s.handleNewVehicleForm)
	s.engine.POST("/vehicles", s.handleCreateVehicle)
	s.engine.GET("/vehicles/:id/edit", s.handleEditVehicleForm)
	s.engine.POST("/vehicles/:id", s.handleUpdateVehicle)
	s.engine.POST("/vehicles/:id/delete", s.handleDeleteVehicle)

	s.engine.GET("/maintenance", s.handleListMaintenance)
	s.engine.GET("/maintenance/new", s.handleNewMaintenanceForm)
	s.engine.POST("/maintenance", s.handleCreateMaintenance)
	s.engine.GET("/maintenance/:id/edit", s.handleEditMaintenanceForm)
	s.engine.POST("/maintenance/:id", s.handleUpdateMaintenance)
	s.engine.POST("/maintenance/:id/delete", s.handleDeleteMaintenance)

	s.engine.GET("/fuel", s.handleFuelPage)
	s.engine.GET("/reminders", s.handleRemindersPage)

	s.engine.GET("/import", s.handleImportForm)
	s.engine.POST("/import", s.handleImport)

	// Downloads.
	s.engine.GET("/export/vehicles.csv", s.handleExportVehiclesCSV)
	s.engine.GET("/export/maintenance.csv", s.handleExportMaintenanceCSV)
	s.engine.GET("/export/maintenance.xlsx", s.handleExportWorkbook)
	s.engine.GET("/export/vehicles.pdf", s.handleExportVehiclesPDF)
	s.engine.GET("/export/maintenance.pdf", s.handleExportMaintenancePDF)

	// JSON API used by the client-side scripts.
	api := s.engine.Group("/api")
	{
		api.GET("/fuel", s.handleAPIListFuel)
		api.POST("/fuel", s.handleAPICreateFuel)
		api.PUT("/fuel/:id", s.handleAPIUpdateFuel)
		api.DELETE("/fuel/:id", s.handleAPIDeleteFuel)
		api.GET("/fuel/mpg-summary", s.handleAPIMpgSummary)

		api.GET("/reminders", s.handleAPIListReminders)
		api.POST("/reminders", s.handleAPICreateReminder)
		api.PUT("/reminders/:id", s.handleAPIUpdateReminder)
		api.DELETE("/reminders/:id", s.handleAPIDeleteReminder)
		api.GET("/notifications", s.handleAPINotifications)

		api.GET("/accounts", s.handleAPIListAccounts)
		api.POST("/accounts/switch", s.handleAPISwitchAccount)

		api.GET("/subscriptions", s.handleAPIListSubscriptions)
		api.POST("/subscriptions", s.handleAPICreateSubscription)
		api.DELETE("/subscriptions/:id", s.handleAPIDeleteSubscription)
	}
}

// storeCtx derives the per-request timeout for store calls.
func (s *Server) storeCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.StoreTimeout)
}
