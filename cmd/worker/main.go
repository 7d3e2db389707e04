package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/soniaGuev/SecBienestar/internal/config"
	"github.com/soniaGuev/SecBienestar/internal/infra"
	"github.com/soniaGuev/SecBienestar/internal/repository"
	"github.com/soniaGuev/SecBienestar/internal/service"
	"github.com/soniaGuev/SecBienestar/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// All worker handlers are wired here (composition root) so the pool has
	// full access to infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	qr := infra.NewQRRenderer(cfg.QRStoragePath, 256, "M")
	dispatcher := worker.NewDispatcher(rdb)

	compraRepo := repository.NewCompraRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	becaRepo := repository.NewBecaRepository(db)
	personaBecaRepo := repository.NewPersonaBecaRepository(db)
	estudianteRepo := repository.NewEstudianteRepository(db)

	handlers := &worker.WorkerHandlers{
		Credencial: worker.NewCredencialWorker(compraRepo, ticketRepo, qr, dispatcher, cfg.PDFStoragePath),
		Email:      worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	becaService := service.NewBecaService(becaRepo, personaBecaRepo, estudianteRepo)
	worker.StartVencimientoCron(ctx, becaService)

	log.Info().Msg("bienestar worker running")

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker…")
	cancel()
	time.Sleep(time.Second)
	log.Info().Msg("worker exited")
}
