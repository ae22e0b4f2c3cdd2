package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/config"
	"github.com/programamos-tech/zonat-sub000/internal/infra"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"
	"github.com/programamos-tech/zonat-sub000/internal/router"
	"github.com/programamos-tech/zonat-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// Structured logger. Dev: pretty, prod: JSON.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// The stock ledger needs the tienda principal's id on every deduction;
	// resolve it once and bootstrap the row on a fresh database.
	tiendaRepo := repository.NewTiendaRepository(db)
	principalID, err := resolvePrincipal(tiendaRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve tienda principal")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async workers are wired here (composition root) so the pool has full
	// access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	ventaRepo := repository.NewVentaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	bitacoraRepo := repository.NewBitacoraRepository(db)

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueBitacora, worker.NewBitacoraWorker(bitacoraRepo))
	pool.Register(worker.QueuePDF, worker.NewFacturaWorker(ventaRepo, tiendaRepo, cfg.PDFStoragePath))
	pool.Register(worker.QueueAlertas, worker.NewAlertaWorker(mailer, smtpCB, cfg.AlertasEmail))
	pool.Start(ctx, cfg.WorkerPoolSize)

	worker.StartAlertaCron(ctx, worker.AlertaCronConfig{
		ProductoRepo: productoRepo,
		Dispatcher:   dispatcher,
		RDB:          rdb,
		CB:           smtpCB,
	})

	r := router.New(cfg, db, rdb, dispatcher, principalID)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("zonat backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// resolvePrincipal returns the tienda principal's id, creating the row on
// first boot so a fresh install works without manual SQL.
func resolvePrincipal(repo repository.TiendaRepository) (uuid.UUID, error) {
	ctx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()

	principal, err := repo.FindPrincipal(ctx)
	if err == nil {
		return principal.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	nueva := &model.Tienda{
		Nombre: "Tienda Principal",
		Tipo:   model.TiendaPrincipal,
		Activa: true,
	}
	if err := repo.Create(ctx, nueva); err != nil {
		return uuid.Nil, err
	}
	log.Info().Str("tienda_id", nueva.ID.String()).Msg("tienda principal creada")
	return nueva.ID, nil
}
