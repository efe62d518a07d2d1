package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"warungpos/m/internal/api"
	"warungpos/m/internal/config"
	"warungpos/m/internal/database"
	"warungpos/m/internal/ledger"
	"warungpos/m/internal/migrations"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logg := config.GetLogger()

	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	migrations.EnsureOwner(db, cfg.OwnerPassword)

	store := ledger.NewStore(cfg.DataDir)
	if err := store.Load(); err != nil {
		logg.Fatalf("unable to load ledger: %v", err)
	}

	handler := api.New(db, store, cfg.Secret, cfg.ReceiptFile)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Infof("warung POS server starting on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Errorf("shutdown error: %v", err)
	}

	// Ledger is saved after every mutation already; the teardown save only
	// matters if the final mutation's write failed.
	if err := store.Save(); err != nil {
		logg.Errorf("final ledger save failed: %v", err)
	}
}
