package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bess-degradation/internal/api"
	"bess-degradation/internal/config"
	"bess-degradation/internal/logger"
	"bess-degradation/internal/metrics"
	"bess-degradation/internal/presets"
	"bess-degradation/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("BESS_CONFIG"), "optional server config file (YAML or JSON)")
	flag.Parse()

	log := logger.New("api")
	if err := run(*cfgPath, log); err != nil {
		log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func run(cfgPath string, log logger.Logger) error {
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorf("store close: %v", err)
		}
	}()

	cat, err := presets.Load(cfg.PresetDir)
	if err != nil {
		return err
	}
	rec, err := metrics.NewPromRecorder(nil)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Store:          st,
		Catalogue:      cat,
		Metrics:        rec,
		Log:            log,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server shutdown: %v", err)
		}
	}()

	log.Infow("starting API server", map[string]any{
		"addr":  srv.Addr,
		"store": cfg.Store.Kind,
		"env":   cfg.Env,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Kind {
	case "sqlite":
		return store.OpenSQLite(cfg.SQLitePath)
	default:
		mem := store.NewMemoryStore(cfg.TTL)
		go mem.Cleanup(ctx, 5*time.Minute)
		return mem, nil
	}
}
