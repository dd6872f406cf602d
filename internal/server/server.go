package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/leadbook/internal/middleware"

	"winsbygroup.com/leadbook/internal/config"
	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/demodata"
	"winsbygroup.com/leadbook/internal/sqlite"

	apihttp "winsbygroup.com/leadbook/internal/http/api"
	webhttp "winsbygroup.com/leadbook/internal/http/web"
)

type Server struct {
	Echo *echo.Echo
	HTTP *http.Server
	DB   *sqlx.DB
}

// OpenDB opens (creating if needed) and migrates the database at cfg.DBPath.
// Demo contacts are loaded only into a database this call created.
func OpenDB(cfg *config.Config) (*sqlx.DB, error) {
	isNewDB := false
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		isNewDB = true
		log.Printf("Creating database '%s' (from %s setting)", cfg.DBPath, cfg.DBPathSource)
	} else {
		log.Printf("Opening database '%s' (from %s setting)", cfg.DBPath, cfg.DBPathSource)
	}

	db, err := sqlx.Connect("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, err
	}
	// one writer; keeps bulk imports from tripping SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, err
	}
	if err := sqlite.RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.DemoMode && isNewDB {
		if err := demodata.Load(context.Background(), db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load demo data: %w", err)
		}
		log.Print("Demo data loaded")
	}
	return db, nil
}

func Build(cfg *config.Config) (*Server, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	e := New(db)

	// Browser clients on other origins call the API directly.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(e)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{Echo: e, HTTP: srv, DB: db}, nil
}

// New wires every route over db.
func New(db *sqlx.DB) *echo.Echo {
	svc := contact.NewService(db)

	e := echo.New()
	e.HideBanner = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/readyz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Middleware
	e.Use(mwecho.RequestIDWithConfig(mwecho.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(mwecho.Logger())
	e.Use(mwecho.Recover())
	e.Use(mwsvc.Metrics())

	// REST API
	apihttp.RegisterRoutes(e.Group("/api"), apihttp.NewHandler(svc))

	// Web UI
	webGroup := e.Group("/web")
	webGroup.Use(mwsvc.Version())
	webGroup.Use(mwecho.CSRFWithConfig(mwecho.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteStrictMode,
	}))
	webGroup.Use(mwsvc.CSRF()) // token into request context for templates
	webhttp.RegisterRoutes(webGroup, webhttp.NewHandler(svc))

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/web/")
	})

	return e
}
