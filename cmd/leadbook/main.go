package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/leadbook/internal/backup"
	"winsbygroup.com/leadbook/internal/config"
	"winsbygroup.com/leadbook/internal/server"
	"winsbygroup.com/leadbook/internal/sqlite"
	"winsbygroup.com/leadbook/internal/version"
)

func main() {
	fmt.Println(version.Banner())

	//
	// Flags
	//
	configPath := flag.String("config", "config.yaml", "path to config file")
	routesFlag := flag.Bool("routes", false, "print routes and exit")
	demoFlag := flag.Bool("demo", false, "load sample contacts on new database (for demos)")
	backupFlag := flag.Bool("backup", false, "write a compressed SQL backup next to the database and exit")
	schemaFlag := flag.Bool("schema", false, "print the database migrations and exit")
	flag.Parse()

	if *schemaFlag {
		printSchema(os.Stdout)
		return
	}

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	//
	// Load configuration
	//
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.DemoMode = *demoFlag

	//
	// Build server (Echo, DB, services, etc.)
	//
	srv, err := server.Build(cfg)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}
	defer srv.DB.Close()

	//
	// Routes inspection mode
	//
	if *routesFlag {
		routes := srv.Echo.Routes()
		sort.Slice(routes, func(i, j int) bool {
			return routes[i].Path < routes[j].Path
		})
		for _, r := range routes {
			fmt.Printf("%-6s %s\n", r.Method, r.Path)
		}
		return
	}

	//
	// Backup mode
	//
	if *backupFlag {
		res, err := backup.NewService(srv.DB, cfg.DBPath).CreateBackup(context.Background())
		if err != nil {
			log.Fatalf("backup failed: %v", err)
		}
		log.Printf("Backup written to %s (%d rows, %d bytes)", res.Path, res.Rows, res.Size)
		return
	}

	//
	// Normal server startup
	//
	go func() {
		log.Printf("Listening on %s", cfg.Addr)
		if err := srv.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.HTTP.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

func printSchema(w io.Writer) {
	fmt.Fprint(w, sqlite.Schema())
}
