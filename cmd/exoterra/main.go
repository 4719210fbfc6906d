package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/exoterra/server/internal/config"
	"github.com/exoterra/server/internal/data"
	"github.com/exoterra/server/internal/game"
	"github.com/exoterra/server/internal/handler"
	"github.com/exoterra/server/internal/persist"
	"github.com/exoterra/server/internal/scripting"
	"github.com/exoterra/server/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Exoterra  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     server di sopravvivenza in Go         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mMondo:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("EXOTERRA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Connect to PostgreSQL and run migrations
	printSection("Database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("connessione PostgreSQL stabilita")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrazioni completate")
	fmt.Println()

	// 4. Create repositories
	playerRepo := persist.NewPlayerRepo(db)
	storageRepo := persist.NewStorageRepo(db)
	catalogRepo := persist.NewCatalogRepo(db)
	bestiaryRepo := persist.NewBestiaryRepo(db)
	auditRepo := persist.NewAuditRepo(db)

	// 5. Load world data and sync it into the database
	printSection("Dati di gioco")

	dataDir := cfg.Server.DataDir
	catalog, err := data.LoadCatalog(filepath.Join(dataDir, "items.yaml"))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	printStat("oggetti base", catalog.Count())

	bestiary, err := data.LoadBestiary(
		filepath.Join(dataDir, "dinosaurs.yaml"),
		filepath.Join(dataDir, "plants.yaml"),
		catalog,
	)
	if err != nil {
		return fmt.Errorf("load bestiary: %w", err)
	}
	printStat("dinosauri", len(bestiary.Dinosaurs))
	printStat("piante", len(bestiary.Plants))

	storageSpecs, err := data.LoadStorageSpecs(filepath.Join(dataDir, "storages.yaml"))
	if err != nil {
		return fmt.Errorf("load storages: %w", err)
	}
	printStat("depositi condivisi", len(storageSpecs))

	if err := catalogRepo.Sync(ctx, catalog); err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}
	if err := bestiaryRepo.Sync(ctx, bestiary); err != nil {
		return fmt.Errorf("sync bestiary: %w", err)
	}
	if err := storageRepo.Sync(ctx, storageSpecs); err != nil {
		return fmt.Errorf("sync storages: %w", err)
	}
	printOK("dati sincronizzati nel database")

	// 6. Lua GM macros
	luaEngine, err := scripting.NewEngine(cfg.Server.ScriptDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printStat("macro GM", luaEngine.Count())
	fmt.Println()

	// 7. Wire the registry, the engine and the HTTP surface
	registry := ws.NewRegistry(cfg.HTTP.SendTimeout, log)
	engine := game.NewEngine(playerRepo, catalog, registry, auditRepo, luaEngine, log)

	deps := &handler.Deps{
		Players:  playerRepo,
		Engine:   engine,
		Registry: registry,
		Storages: storageRepo,
		Catalog:  catalog,
		Bestiary: bestiary,
		Config:   cfg,
		Log:      log,
	}
	mux := http.NewServeMux()
	handler.RegisterAll(mux, deps)

	srv := &http.Server{
		Addr:         cfg.HTTP.BindAddress,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// 8. Daybreak ticker
	ticker := game.NewTicker(engine, registry, cfg.Tick.DayLength, log)
	ticker.Start()
	defer ticker.Stop()

	// 9. Serve until a shutdown signal arrives
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	printSection("Server pronto")
	printReady(fmt.Sprintf("in ascolto su %s", cfg.HTTP.BindAddress))
	printReady(fmt.Sprintf("durata del giorno: %s", cfg.Tick.DayLength))
	fmt.Println()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-shutdownCh:
		log.Info("segnale di arresto ricevuto", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("arresto http non pulito", zap.Error(err))
	}
	log.Info("server arrestato")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
