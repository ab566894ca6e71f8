package server

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/lazysheet/internal/config"
	"github.com/locvowork/lazysheet/internal/database"
	"github.com/locvowork/lazysheet/internal/logger"
	"github.com/locvowork/lazysheet/pkg/lazysheet/sqlsource"
)

// App serves registered reports as workbook downloads.
type App struct {
	Echo *echo.Echo
	DB   *sqlx.DB

	cfg     *config.EnvConfig
	reports map[string]ReportFunc
}

func NewApp(cfg *config.EnvConfig) *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo:    e,
		cfg:     cfg,
		reports: make(map[string]ReportFunc),
	}
}

// Initialize sets up logging and the database pool, then registers
// middlewares and routes.
func (a *App) Initialize(ctx context.Context) error {
	if err := logger.InitLogging(a.cfg.Logger()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	db, err := database.NewPostgresDB(ctx, a.cfg.Database())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	logger.InfoLog(ctx, "Database connection established successfully")

	a.RegisterMiddlewares()
	a.RegisterRoutes()
	return nil
}

// RegisterReport exposes fn under /reports/<name>. Reports must be registered
// before Run.
func (a *App) RegisterReport(name string, fn ReportFunc) {
	a.reports[name] = fn
}

// ReportNames returns the registered report names in sorted order.
func (a *App) ReportNames() []string {
	names := make([]string, 0, len(a.reports))
	for name := range a.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes() {
	group := a.Echo.Group("/reports")
	group.GET("", a.ListReportsHandler)
	group.GET("/:name", a.ExportReportHandler)
}

func (a *App) querier() sqlsource.Querier {
	if a.DB == nil {
		return nil
	}
	return a.DB
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	return a.Echo.Start(":" + a.cfg.AppPort)
}
