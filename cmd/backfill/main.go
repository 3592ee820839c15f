package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"groupstay_crm/internal/adapters/crm"
	"groupstay_crm/internal/adapters/observability"
	"groupstay_crm/internal/app"
	"groupstay_crm/internal/shared"
	mysqlrepo "groupstay_crm/internal/storage/mysql"
)

func main() {
	file := flag.String("file", os.Getenv("BACKFILL_FILE"), "JSON export with contacts and properties")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *file == "" {
		log.Fatal().Msg("no input: pass -file or set BACKFILL_FILE")
	}
	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open backfill file failed")
	}
	batch, err := app.ReadBackfill(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("read backfill file failed")
	}

	log.Info().
		Str("file", *file).
		Int("workers", cfg.BackfillWorkers).
		Int("contacts", len(batch.Contacts)).
		Int("properties", len(batch.Properties)).
		Bool("crm_enabled", cfg.CRM.Enabled).
		Msg("backfill starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	logs := app.NewSyncLogger(mysqlrepo.New(db), log.Logger)
	svc := app.NewSyncService(crm.NewFactory(shared.LoadCRM, log.Logger).Instance(), logs)

	rep, err := app.Backfill(ctx, svc, batch, cfg.BackfillWorkers)
	if err != nil {
		log.Error().Err(err).Msg("backfill interrupted")
	}
	for key, crmID := range rep.Created {
		log.Info().Str("record", key).Str("crm_id", crmID).Msg("new crm id")
	}
	log.Info().Int64("ok", rep.Succeeded).Int64("failed", rep.Failed).Msg("backfill completed")
}
